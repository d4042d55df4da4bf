package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/outbox"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/transaction"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/metrics"
)

// OutboxRelay は未配信のアウトボックスメッセージをブローカーに送信するワーカー
// 取得と配信済みの記録を同じトランザクションで行うため、複数インスタンスでも同じ行を二重に取らない
type OutboxRelay struct {
	txManager transaction.Manager
	repo      outbox.Repository
	publisher outbox.Publisher
	interval  time.Duration
	batchSize int
	metrics   *metrics.Metrics
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewOutboxRelay は新しいリレーを作成
// m が nil の場合はメトリクスを記録しない
func NewOutboxRelay(tm transaction.Manager, repo outbox.Repository, pub outbox.Publisher, interval time.Duration, m *metrics.Metrics) *OutboxRelay {
	return &OutboxRelay{
		txManager: tm,
		repo:      repo,
		publisher: pub,
		interval:  interval,
		batchSize: outbox.DefaultBatchSize,
		metrics:   m,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start はリレーを開始
func (r *OutboxRelay) Start(ctx context.Context) {
	logger.Info("アウトボックスリレー開始",
		zap.Duration("interval", r.interval),
		zap.Int("batch_size", r.batchSize),
	)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("アウトボックスリレー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("アウトボックスリレー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// Stop はリレーを停止
func (r *OutboxRelay) Stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *OutboxRelay) tick(ctx context.Context) {
	n, err := r.RelayOnce(ctx)
	if err != nil {
		logger.Error("アウトボックスの配信に失敗", zap.Int("published", n), zap.Error(err))
		return
	}
	if n > 0 {
		logger.Debug("アウトボックスを配信", zap.Int("published", n))
	}
}

// RelayOnce は未配信メッセージを1バッチ分配信し、配信できた件数を返す
// 途中で送信に失敗した場合はそれまでの分だけを配信済みにする
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	tx, err := r.txManager.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("トランザクション開始に失敗: %w", err)
	}
	defer tx.Rollback()

	msgs, err := r.repo.ClaimUnpublished(ctx, tx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	published := make([]string, 0, len(msgs))
	var publishErr error
	for _, msg := range msgs {
		if err := r.publisher.Publish(ctx, msg); err != nil {
			publishErr = fmt.Errorf("メッセージ %s の送信に失敗: %w", msg.ID, err)
			r.metrics.RecordOutbox("failed", 1)
			break
		}
		published = append(published, msg.ID)
	}

	if len(published) > 0 {
		if err := r.repo.MarkPublished(ctx, tx, published); err != nil {
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("コミットに失敗: %w", err)
		}
		r.metrics.RecordOutbox("published", len(published))
	}
	return len(published), publishErr
}
