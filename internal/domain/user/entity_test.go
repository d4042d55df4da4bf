package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u := NewUser(" taro ", " Taro@Example.COM ", "hash", "山田 太郎", "090-0000-0000")

	assert.Equal(t, "taro", u.Username)
	assert.Equal(t, "taro@example.com", u.Email)
	assert.Equal(t, "山田 太郎", u.FullName)
	assert.Equal(t, RoleCustomer, u.Role)
	assert.False(t, u.IsAdmin())
}

func TestUser_Validate(t *testing.T) {
	valid := func() *User { return NewUser("taro", "taro@example.com", "hash", "山田 太郎", "") }
	tests := []struct {
		name        string
		modify      func(u *User)
		expectedErr error
	}{
		{"有効なユーザー", func(u *User) {}, nil},
		{"管理者", func(u *User) { u.Role = RoleAdmin }, nil},
		{"ユーザー名未指定", func(u *User) { u.Username = "" }, ErrUsernameRequired},
		{"不正なメールアドレス", func(u *User) { u.Email = "not-an-email" }, ErrInvalidEmail},
		{"氏名未指定", func(u *User) { u.FullName = "" }, ErrFullNameRequired},
		{"パスワード未設定", func(u *User) { u.PasswordHash = "" }, ErrPasswordRequired},
		{"不明な権限", func(u *User) { u.Role = Role("owner") }, ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid()
			tt.modify(u)
			err := u.Validate()
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
