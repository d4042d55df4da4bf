package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// SeatCache は公演ごとの空席数のキャッシュを管理する
// 予約処理の判定には使わず、表示用の件数取得だけに使う
type SeatCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeatCache は新しいSeatCacheインスタンスを作成する
func NewSeatCache(client *redis.Client, ttl time.Duration) *SeatCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &SeatCache{client: client, ttl: ttl}
}

// GetAvailableCount は公演の空席数をキャッシュから取得する
func (c *SeatCache) GetAvailableCount(ctx context.Context, showID string) (int, error) {
	val, err := c.client.Get(ctx, availableCountKey(showID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount は公演の空席数をキャッシュに保存する
func (c *SeatCache) SetAvailableCount(ctx context.Context, showID string, count int) error {
	if err := c.client.Set(ctx, availableCountKey(showID), count, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は公演のキャッシュを無効化する
func (c *SeatCache) Invalidate(ctx context.Context, showID string) error {
	if err := c.client.Del(ctx, availableCountKey(showID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

// IsCacheMiss はキャッシュミスかを返す
func (c *SeatCache) IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

func availableCountKey(showID string) string {
	return fmt.Sprintf("seats:available:%s", showID)
}
