package transaction

import (
	"context"
	"errors"
)

// ErrSerializationFailure は並行トランザクションとの競合でコミットできなかったことを表す
// 呼び出し側はトランザクション全体を再実行してよい
var ErrSerializationFailure = errors.New("トランザクションの直列化に失敗しました")

// Tx はトランザクションを表すインターフェース
// ドメイン層がインフラ層（sqlx等）に依存しないようにするための抽象化
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする
	Rollback() error
}

// Manager はトランザクションを管理するインターフェース
type Manager interface {
	// Begin は SERIALIZABLE 分離レベルで新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}

// IsRetryable はトランザクションを再実行すれば成功しうるエラーかを返す
func IsRetryable(err error) bool {
	return errors.Is(err, ErrSerializationFailure)
}
