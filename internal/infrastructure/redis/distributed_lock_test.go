package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/lock"
)

func TestLockManager_AcquireLock(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	manager := NewLockManager(client)

	t.Run("ロックを取得できる", func(t *testing.T) {
		l, err := manager.AcquireLock(ctx, "test-key-1", 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, l)
		defer l.Release(ctx)
	})

	t.Run("同じキーのロックは取得できない", func(t *testing.T) {
		lock1, err := manager.AcquireLock(ctx, "test-key-2", 5*time.Second)
		require.NoError(t, err)
		defer lock1.Release(ctx)

		lock2, err := manager.AcquireLock(ctx, "test-key-2", 5*time.Second)
		assert.ErrorIs(t, err, lock.ErrNotAcquired)
		assert.Nil(t, lock2)
	})

	t.Run("解放後は再取得できる", func(t *testing.T) {
		lock1, err := manager.AcquireLock(ctx, "test-key-3", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, lock1.Release(ctx))

		lock2, err := manager.AcquireLock(ctx, "test-key-3", 5*time.Second)
		require.NoError(t, err)
		defer lock2.Release(ctx)
	})

	t.Run("ロックを延長できる", func(t *testing.T) {
		l, err := manager.AcquireLock(ctx, "test-key-extend", 1*time.Second)
		require.NoError(t, err)
		defer l.Release(ctx)

		require.NoError(t, l.Extend(ctx, 5*time.Second))

		lock2, err := manager.AcquireLock(ctx, "test-key-extend", 1*time.Second)
		assert.ErrorIs(t, err, lock.ErrNotAcquired)
		assert.Nil(t, lock2)
	})

	t.Run("解放後は延長できない", func(t *testing.T) {
		l, err := manager.AcquireLock(ctx, "test-key-extend-after-release", 1*time.Second)
		require.NoError(t, err)
		require.NoError(t, l.Release(ctx))

		assert.ErrorIs(t, l.Extend(ctx, 5*time.Second), lock.ErrNotOwned)
	})
}

func TestLockManager_AcquireLocks(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	manager := NewLockManager(client)

	t.Run("重なる座席を含む場合はひとつも取得しない", func(t *testing.T) {
		held, err := manager.AcquireLock(ctx, "show:1:seat:b", 5*time.Second)
		require.NoError(t, err)
		defer held.Release(ctx)

		_, err = manager.AcquireLocks(ctx, []string{"show:1:seat:a", "show:1:seat:b"}, 5*time.Second)
		assert.ErrorIs(t, err, lock.ErrNotAcquired)

		// a は取得されていない
		a, err := manager.AcquireLock(ctx, "show:1:seat:a", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, a.Release(ctx))
	})

	t.Run("キーの順序と重複に依存しない", func(t *testing.T) {
		l, err := manager.AcquireLocks(ctx, []string{"show:2:seat:c", "show:2:seat:a", "show:2:seat:c"}, 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, []string{"lock:show:2:seat:a", "lock:show:2:seat:c"}, l.(*DistributedLock).keys)
		require.NoError(t, l.Release(ctx))
	})

	t.Run("リトライで取得できる", func(t *testing.T) {
		lock1, err := manager.AcquireLocks(ctx, []string{"show:3:seat:a"}, 500*time.Millisecond)
		require.NoError(t, err)

		go func() {
			time.Sleep(300 * time.Millisecond)
			lock1.Release(ctx)
		}()

		lock2, err := manager.AcquireLocksWithRetry(ctx, []string{"show:3:seat:a", "show:3:seat:b"}, 5*time.Second, 5, 100*time.Millisecond)
		require.NoError(t, err)
		defer lock2.Release(ctx)
	})

	t.Run("キーが空ならエラー", func(t *testing.T) {
		_, err := manager.AcquireLocks(ctx, nil, time.Second)
		assert.Error(t, err)
	})
}
