package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

// RequestIDMiddleware はリクエストIDを付与し、そのIDを持つロガーをコンテキストに載せる
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			scoped := logger.With(zap.String("request_id", requestID))
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), scoped)))
			return next(c)
		}
	}
}

// RequestLogger はリクエストの構造化ログを出力するミドルウェア
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()
			status := responseStatus(c, err)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", c.Path()),
				zap.String("path", req.URL.Path),
				zap.Int("status", status),
				zap.Int64("size", res.Size),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}
			if req.URL.RawQuery != "" {
				fields = append(fields, zap.String("query", req.URL.RawQuery))
			}
			if userID, ok := CurrentUserID(c); ok {
				fields = append(fields, zap.String("user_id", userID))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			logger.FromContext(req.Context()).Log(levelForStatus(status), "request completed", fields...)
			return err
		}
	}
}

func levelForStatus(status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
