package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
)

// TxWrapper は sqlx.Tx を transaction.Tx インターフェースでラップする
type TxWrapper struct {
	*sqlx.Tx
}

// Commit はトランザクションをコミットする
// 直列化失敗は transaction.ErrSerializationFailure として返す
func (t *TxWrapper) Commit() error {
	if err := t.Tx.Commit(); err != nil {
		return wrapErr("コミットに失敗しました", err)
	}
	return nil
}

// Rollback はトランザクションをロールバックする
func (t *TxWrapper) Rollback() error {
	return t.Tx.Rollback()
}

// TxManager は sqlx.DB を使用したトランザクションマネージャー
type TxManager struct {
	db *sqlx.DB
}

// NewTxManager は新しい TxManager を作成する
func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{db: db}
}

// Begin は SERIALIZABLE 分離レベルで新しいトランザクションを開始する
func (m *TxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗しました: %w", err)
	}
	return &TxWrapper{Tx: tx}, nil
}

// UnwrapTx は transaction.Tx から sqlx.Tx を取り出す
// リポジトリ実装で使用する
func UnwrapTx(tx transaction.Tx) *sqlx.Tx {
	if wrapper, ok := tx.(*TxWrapper); ok {
		return wrapper.Tx
	}
	return nil
}

// mustUnwrap は UnwrapTx の結果が nil の場合にエラーを返す
func mustUnwrap(tx transaction.Tx) (*sqlx.Tx, error) {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return nil, errInvalidTx
	}
	return sqlxTx, nil
}

var _ transaction.Manager = (*TxManager)(nil)
