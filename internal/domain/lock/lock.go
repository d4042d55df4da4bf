package lock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotAcquired は他の処理がロックを保持していることを表す
	ErrNotAcquired = errors.New("ロックを取得できませんでした")
	// ErrNotOwned はロックの期限が切れて他の処理に取られたことを表す
	ErrNotOwned = errors.New("ロックの所有者ではありません")
)

// Lock は取得済みの分散ロック
type Lock interface {
	Release(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) error
}

// Manager は分散ロックを管理するインターフェース
// ドメイン層がインフラ層（Redis等）に依存しないようにするための抽象化
type Manager interface {
	// AcquireLock は単一キーのロックを取得する
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (Lock, error)

	// AcquireLocks は複数キーのロックをすべて取得するか、ひとつも取得しない
	AcquireLocks(ctx context.Context, keys []string, ttl time.Duration) (Lock, error)

	// AcquireLocksWithRetry は AcquireLocks を retryDelay 間隔で最大 maxRetries 回試行する
	AcquireLocksWithRetry(ctx context.Context, keys []string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (Lock, error)
}
