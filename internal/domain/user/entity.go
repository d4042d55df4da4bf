package user

import (
	"net/mail"
	"strings"
	"time"
)

// Role はユーザーの権限を表す
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// MinPasswordLength はパスワードの最小文字数
const MinPasswordLength = 8

// User はユーザーエンティティを表す
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser は一般ユーザーを作成する
// メールアドレスは小文字に正規化される
func NewUser(username, email, passwordHash, fullName, phone string) *User {
	now := time.Now()
	return &User{
		Username:     strings.TrimSpace(username),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		FullName:     strings.TrimSpace(fullName),
		Phone:        strings.TrimSpace(phone),
		Role:         RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NormalizeEmail はメールアドレスを比較用に正規化する
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAdmin は管理者かを返す
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate はユーザーの検証を行う
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrUsernameRequired
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}
	if u.FullName == "" {
		return ErrFullNameRequired
	}
	if u.PasswordHash == "" {
		return ErrPasswordRequired
	}
	if u.Role != RoleCustomer && u.Role != RoleAdmin {
		return ErrInvalidRole
	}
	return nil
}
