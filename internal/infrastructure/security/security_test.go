package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, h.Compare(hash, "password123"))
	assert.False(t, h.Compare(hash, "wrong-password"))
	assert.False(t, h.Compare("not-a-hash", "password123"))
}

func TestNewPasswordHasher_範囲外のコストは既定値(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(99).cost)
	assert.Equal(t, 12, NewPasswordHasher(12).cost)
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	raw, exp, err := m.Issue("user-1", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenManager_Parse_不正なトークン(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	valid, _, err := m.Issue("user-1", "customer")
	require.NoError(t, err)

	t.Run("別の鍵で署名されたトークン", func(t *testing.T) {
		_, err := NewTokenManager("other", time.Hour).Parse(valid)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("期限切れのトークン", func(t *testing.T) {
		expired := NewTokenManager("secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		raw, _, err := expired.Issue("user-1", "customer")
		require.NoError(t, err)

		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("HS256以外の署名方式", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subjectがないトークン", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = m.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("文字列ではない", func(t *testing.T) {
		_, err := m.Parse("garbage")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
