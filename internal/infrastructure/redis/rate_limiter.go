package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// トークンバケット
// KEYS[1]: バケットのキー
// ARGV: 現在時刻(ms), 容量, 補充トークン数, 補充間隔(ms), キーの有効期間(秒)
// 戻り値: {許可(1/0), 残りトークン, 次の補充までの時間(ms)}
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill_tokens = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl_seconds = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])
	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals * refill_tokens)
		last_refill = last_refill + intervals * interval_ms
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)
	return {allowed, tokens, retry_after_ms}
`)

// RateDecision はレート制限の判定結果
type RateDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter は Redis 上のトークンバケットによるレート制限
type RateLimiter struct {
	client         *redis.Client
	capacity       int
	refillTokens   int
	refillInterval time.Duration
}

// NewRateLimiter は RateLimiter を作成する
func NewRateLimiter(client *redis.Client, capacity, refillTokens int, refillInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		client:         client,
		capacity:       max(capacity, 1),
		refillTokens:   max(refillTokens, 1),
		refillInterval: max(refillInterval, time.Millisecond),
	}
}

// Limit はバケットの容量を返す
func (l *RateLimiter) Limit() int {
	return l.capacity
}

// Allow は key のバケットからトークンを1つ消費できるかを判定する
func (l *RateLimiter) Allow(ctx context.Context, key string) (RateDecision, error) {
	// 満タンに戻るまでの時間の2倍をキーの有効期間にする
	ttl := 2 * time.Duration(l.capacity/l.refillTokens+1) * l.refillInterval
	res, err := tokenBucketScript.Run(ctx, l.client, []string{"rl:" + key},
		time.Now().UnixMilli(), l.capacity, l.refillTokens, l.refillInterval.Milliseconds(), int64(max(ttl/time.Second, 1)),
	).Int64Slice()
	if err != nil {
		return RateDecision{}, fmt.Errorf("レート制限の判定に失敗: %w", err)
	}
	if len(res) != 3 {
		return RateDecision{}, fmt.Errorf("レート制限の判定結果が不正です: %v", res)
	}
	return RateDecision{
		Allowed:    res[0] == 1,
		Remaining:  int(res[1]),
		RetryAfter: time.Duration(res[2]) * time.Millisecond,
	}, nil
}
