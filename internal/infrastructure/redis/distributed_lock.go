package redis

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/lock"
)

// 全キーが空いている場合のみ全キーを設定する
var acquireScript = redis.NewScript(`
	for i = 1, #KEYS do
		if redis.call("EXISTS", KEYS[i]) == 1 then
			return 0
		end
	end
	for i = 1, #KEYS do
		redis.call("SET", KEYS[i], ARGV[1], "PX", ARGV[2])
	end
	return 1
`)

// 自分が所有するキーだけを削除する
var releaseScript = redis.NewScript(`
	local released = 0
	for i = 1, #KEYS do
		if redis.call("GET", KEYS[i]) == ARGV[1] then
			released = released + redis.call("DEL", KEYS[i])
		end
	end
	return released
`)

var extendScript = redis.NewScript(`
	for i = 1, #KEYS do
		if redis.call("GET", KEYS[i]) ~= ARGV[1] then
			return 0
		end
	end
	for i = 1, #KEYS do
		redis.call("PEXPIRE", KEYS[i], ARGV[2])
	end
	return 1
`)

// DistributedLock は Redis を使用した分散ロック
// 複数キーをひとつの所有者トークンでまとめて保持する
type DistributedLock struct {
	client *redis.Client
	keys   []string
	value  string
	ttl    time.Duration
}

// LockManager は分散ロックを管理する
type LockManager struct {
	client *redis.Client
}

func NewLockManager(client *redis.Client) *LockManager {
	return &LockManager{client: client}
}

// AcquireLock はロックを取得する
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (lock.Lock, error) {
	return m.AcquireLocks(ctx, []string{key}, ttl)
}

// AcquireLocks は全キーのロックをアトミックに取得する
// キーはソートして扱うため、呼び出し側の順序に依存しない
func (m *LockManager) AcquireLocks(ctx context.Context, keys []string, ttl time.Duration) (lock.Lock, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("ロック対象のキーがありません")
	}
	lockKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		lockKeys = append(lockKeys, "lock:"+k)
	}
	slices.Sort(lockKeys)
	lockKeys = slices.Compact(lockKeys)
	lockValue := uuid.New().String()

	ok, err := acquireScript.Run(ctx, m.client, lockKeys, lockValue, ttl.Milliseconds()).Int()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if ok == 0 {
		return nil, lock.ErrNotAcquired
	}

	return &DistributedLock{
		client: m.client,
		keys:   lockKeys,
		value:  lockValue,
		ttl:    ttl,
	}, nil
}

// AcquireLocksWithRetry はリトライ付きでロックを取得する
func (m *LockManager) AcquireLocksWithRetry(ctx context.Context, keys []string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (lock.Lock, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		l, err := m.AcquireLocks(ctx, keys, ttl)
		if err == nil {
			return l, nil
		}
		lastErr = err
		if !errors.Is(err, lock.ErrNotAcquired) {
			return nil, err
		}
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Release はロックを解放する（Lua スクリプトで安全に解放）
func (l *DistributedLock) Release(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, l.client, l.keys, l.value).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		return lock.ErrNotOwned
	}
	return nil
}

// Extend はロックの有効期限を延長する
func (l *DistributedLock) Extend(ctx context.Context, ttl time.Duration) error {
	result, err := extendScript.Run(ctx, l.client, l.keys, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if result == 0 {
		return lock.ErrNotOwned
	}
	l.ttl = ttl
	return nil
}

var _ lock.Manager = (*LockManager)(nil)
