package application

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

// maxTxAttempts は直列化失敗時にトランザクションを試行する最大回数
const maxTxAttempts = 5

// runInTx はトランザクション内で fn を実行し、成功すればコミットする
// fn がエラーを返した場合はロールバックする
func runInTx(ctx context.Context, txm transaction.Manager, fn func(tx transaction.Tx) error) error {
	tx, err := txm.Begin(ctx)
	if err != nil {
		return fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	return nil
}

// retryTx は直列化失敗の間 runInTx を再実行する
// onRetry は再実行の直前に呼ばれる（nil可）
func retryTx(ctx context.Context, txm transaction.Manager, op string, onRetry func(), fn func(tx transaction.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = runInTx(ctx, txm, fn)
		if !transaction.IsRetryable(err) || attempt == maxTxAttempts {
			return err
		}
		logger.Debug("直列化失敗のため再試行",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if onRetry != nil {
			onRetry()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryBackoff(attempt)):
		}
	}
	return err
}

// retryBackoff は試行回数に応じた待ち時間（ジッター付き）を返す
func retryBackoff(attempt int) time.Duration {
	base := time.Duration(attempt) * 10 * time.Millisecond
	return base + rand.N(base)
}
