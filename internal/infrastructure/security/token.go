package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken はトークンが不正または期限切れの場合のエラー
var ErrInvalidToken = errors.New("トークンが無効です")

// Claims はアクセストークンから取り出した認証情報
type Claims struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// TokenManager は HS256 のアクセストークンを発行・検証する
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager は署名鍵と有効期間を指定して作成する
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue はユーザーのアクセストークンを発行する
// クレームは sub, role, exp, iat
func (m *TokenManager) Issue(userID, role string) (string, time.Time, error) {
	now := m.now().UTC()
	exp := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, exp, nil
}

// Parse はトークンを検証してクレームを返す
func (m *TokenManager) Parse(raw string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("想定外の署名方式: %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: sub, Role: role, ExpiresAt: exp.Time}, nil
}
