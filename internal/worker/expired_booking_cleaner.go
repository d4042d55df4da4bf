package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/lock"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

// expiredBookingsLockKey は複数インスタンスで同時に掃除しないためのロックキー
const expiredBookingsLockKey = "worker:expired-bookings"

// 1回の実行で ExpireOverdue を繰り返す上限
const maxCleanupRounds = 10

// BookingExpirer は期限切れ予約の失効と開始済み公演の完了を行うインターフェース
type BookingExpirer interface {
	ExpireOverdue(ctx context.Context, limit int) (int, error)
	CompleteStartedShows(ctx context.Context) (int, error)
}

// ExpiredBookingCleaner は期限切れの仮押さえを解放するワーカー
type ExpiredBookingCleaner struct {
	bookingService BookingExpirer
	interval       time.Duration
	batchSize      int
	lockManager    lock.Manager
	lockTTL        time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
}

// CleanerOption は ExpiredBookingCleaner の任意設定
type CleanerOption func(*ExpiredBookingCleaner)

// WithLeaderLock は実行ごとに分散ロックを取り、取れなかったインスタンスは何もしない
func WithLeaderLock(m lock.Manager, ttl time.Duration) CleanerOption {
	return func(c *ExpiredBookingCleaner) {
		c.lockManager = m
		c.lockTTL = ttl
	}
}

// NewExpiredBookingCleaner は新しいクリーナーを作成
func NewExpiredBookingCleaner(bs BookingExpirer, interval time.Duration, batchSize int, opts ...CleanerOption) *ExpiredBookingCleaner {
	c := &ExpiredBookingCleaner{
		bookingService: bs,
		interval:       interval,
		batchSize:      batchSize,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.lockManager != nil && c.lockTTL <= 0 {
		c.lockTTL = interval
	}
	return c
}

// Start はクリーナーを開始
func (c *ExpiredBookingCleaner) Start(ctx context.Context) {
	logger.Info("期限切れ予約クリーナー開始",
		zap.Duration("interval", c.interval),
		zap.Int("batch_size", c.batchSize),
		zap.Bool("leader_lock", c.lockManager != nil),
	)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れ予約クリーナー停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("期限切れ予約クリーナー停止（シグナル受信）")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// Stop はクリーナーを停止
func (c *ExpiredBookingCleaner) Stop() {
	close(c.stopCh)
	<-c.doneCh
}

// cleanup は期限切れ予約を失効させ、開始済み公演の確定予約を完了にする
func (c *ExpiredBookingCleaner) cleanup(ctx context.Context) {
	log := logger.Get()

	var leader lock.Lock
	if c.lockManager != nil {
		l, err := c.lockManager.AcquireLock(ctx, expiredBookingsLockKey, c.lockTTL)
		switch {
		case errors.Is(err, lock.ErrNotAcquired):
			log.Debug("他のインスタンスが実行中のためスキップ")
			return
		case err != nil:
			// 失効処理は SERIALIZABLE トランザクション内で行われる
			log.Warn("クリーナーのロック取得に失敗、ロックなしで実行", zap.Error(err))
		default:
			leader = l
			defer func() {
				if err := l.Release(context.WithoutCancel(ctx)); err != nil {
					log.Warn("クリーナーのロック解放に失敗", zap.Error(err))
				}
			}()
		}
	}

	log.Debug("期限切れ予約のクリーンアップ開始")
	expired := 0
	for round := 0; round < maxCleanupRounds; round++ {
		n, err := c.bookingService.ExpireOverdue(ctx, c.batchSize)
		expired += n
		if err != nil {
			log.Error("期限切れ予約のクリーンアップ失敗", zap.Error(err))
			break
		}
		if n < c.batchSize {
			break
		}
		// 次のバッチに進む前にロックを延長し、他のインスタンスに取られていたら中断する
		if leader != nil {
			if err := leader.Extend(ctx, c.lockTTL); err != nil {
				if errors.Is(err, lock.ErrNotOwned) {
					log.Warn("クリーナーのロックを失ったため中断", zap.Int("expired", expired))
					return
				}
				log.Warn("クリーナーのロック延長に失敗", zap.Error(err))
			}
		}
	}
	if expired > 0 {
		log.Info("期限切れ予約を失効", zap.Int("count", expired))
	} else {
		log.Debug("期限切れ予約なし")
	}

	completed, err := c.bookingService.CompleteStartedShows(ctx)
	if err != nil {
		log.Error("開始済み公演の予約完了処理に失敗", zap.Error(err))
		return
	}
	if completed > 0 {
		log.Info("開始済み公演の予約を完了", zap.Int("count", completed))
	}
}
