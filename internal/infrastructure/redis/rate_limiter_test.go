package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	t.Run("容量を超えると拒否される", func(t *testing.T) {
		limiter := NewRateLimiter(client, 3, 1, time.Minute)

		for i := 0; i < 3; i++ {
			d, err := limiter.Allow(ctx, "user-a")
			require.NoError(t, err)
			assert.True(t, d.Allowed)
			assert.Equal(t, 2-i, d.Remaining)
		}

		d, err := limiter.Allow(ctx, "user-a")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Greater(t, d.RetryAfter, time.Duration(0))
	})

	t.Run("キーごとに独立している", func(t *testing.T) {
		limiter := NewRateLimiter(client, 1, 1, time.Minute)

		d, err := limiter.Allow(ctx, "user-b")
		require.NoError(t, err)
		assert.True(t, d.Allowed)

		d, err = limiter.Allow(ctx, "user-c")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})

	t.Run("補充間隔が経過するとトークンが戻る", func(t *testing.T) {
		limiter := NewRateLimiter(client, 1, 1, 100*time.Millisecond)

		d, err := limiter.Allow(ctx, "user-d")
		require.NoError(t, err)
		require.True(t, d.Allowed)

		d, err = limiter.Allow(ctx, "user-d")
		require.NoError(t, err)
		require.False(t, d.Allowed)

		time.Sleep(150 * time.Millisecond)
		d, err = limiter.Allow(ctx, "user-d")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	})
}
