package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-show-ticket-booking/internal/config"
)

const (
	dialTimeout = 3 * time.Second
	commandTimeout = 500 * time.Millisecond
)

// NewClient はRedisクライアントを作成し、接続を確認する
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  dialTimeout,
		ReadTimeout:  commandTimeout,
		WriteTimeout: commandTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Ping はRedis接続を確認する
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("Redis接続に失敗しました: %w", err)
	}
	return nil
}
