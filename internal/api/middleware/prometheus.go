package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/metrics"
)

const (
	metricsPath    = "/metrics"
	unmatchedRoute = "unmatched"
)

// PrometheusMiddleware はルート単位でHTTPメトリクスを収集するミドルウェア
// ルートに一致しないリクエストは unmatched にまとめ、/metrics 自体は集計しない
func PrometheusMiddleware(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == metricsPath {
				return next(c)
			}
			start := time.Now()

			err := next(c)

			route := routeLabel(c, err)
			method := c.Request().Method
			m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(responseStatus(c, err))).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func routeLabel(c echo.Context, err error) string {
	if c.Path() == "" || errors.Is(err, echo.ErrNotFound) || errors.Is(err, echo.ErrMethodNotAllowed) {
		return unmatchedRoute
	}
	return c.Path()
}

// responseStatus はエラーハンドラーが書き込む前のステータスも含めて決定する
func responseStatus(c echo.Context, err error) int {
	if err != nil && !c.Response().Committed {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code
		}
		return 500
	}
	return c.Response().Status
}
