package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	redisinfra "github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

// Limiter はキーごとのレート制限を判定する
type Limiter interface {
	Allow(ctx context.Context, key string) (redisinfra.RateDecision, error)
	Limit() int
}

// RateLimit はユーザー単位でリクエストを制限するミドルウェア
// 認証前に使う場合はクライアントIPで制限する
// Redis に接続できない場合は制限せずに通す
func RateLimit(limiter Limiter, scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := scope + ":"
			if userID, ok := CurrentUserID(c); ok {
				key += "user:" + userID
			} else {
				key += "ip:" + c.RealIP()
			}

			decision, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				logger.Warn("レート制限の判定に失敗", zap.String("key", key), zap.Error(err))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			if !decision.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
				return echo.NewHTTPError(http.StatusTooManyRequests, "リクエストが多すぎます。しばらくしてから再度お試しください")
			}
			return next(c)
		}
	}
}
