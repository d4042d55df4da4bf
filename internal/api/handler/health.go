package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck は依存先の疎通を確認する
type HealthCheck func(ctx context.Context) error

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	database HealthCheck
	redis    HealthCheck
}

// NewHealthHandler はHealthHandlerを作成する
// redis が nil の場合は Redis を使わない構成として扱う
func NewHealthHandler(database, redis HealthCheck) *HealthHandler {
	return &HealthHandler{database: database, redis: redis}
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string            `json:"status" example:"ok"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Check はヘルスチェックを行う
// データベースに接続できない場合は503、Redisのみの障害は degraded として200を返す
// @Summary ヘルスチェック
// @Description アプリケーションと依存先の健全性を確認する
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    map[string]string{},
	}
	status := http.StatusOK

	resp.Checks["database"] = runCheck(ctx, "database", h.database)
	if resp.Checks["database"] != "ok" {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.redis == nil {
		resp.Checks["redis"] = "disabled"
	} else {
		resp.Checks["redis"] = runCheck(ctx, "redis", h.redis)
		if resp.Checks["redis"] != "ok" && status == http.StatusOK {
			resp.Status = "degraded"
		}
	}

	return c.JSON(status, resp)
}

func runCheck(ctx context.Context, name string, check HealthCheck) string {
	if check == nil {
		return "ok"
	}
	if err := check(ctx); err != nil {
		logger.Warn("ヘルスチェック失敗", zap.String("target", name), zap.Error(err))
		return "error"
	}
	return "ok"
}
