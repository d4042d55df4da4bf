package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher は bcrypt でパスワードをハッシュ化する
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher は指定コストのハッシャーを作成する
// 範囲外のコストは bcrypt.DefaultCost に置き換える
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash は平文パスワードのハッシュを返す
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	return string(b), nil
}

// Compare はハッシュと平文が一致するかを返す
func (h *PasswordHasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
