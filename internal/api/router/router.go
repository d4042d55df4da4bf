// Package router は HTTP ルーティングとミドルウェアの組み立てを行う
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api"
	"github.com/sanosuguru/go-show-ticket-booking/internal/api/handler"
	"github.com/sanosuguru/go-show-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-show-ticket-booking/internal/config"
	"github.com/sanosuguru/go-show-ticket-booking/internal/domain/user"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/metrics"
)

// Handlers はルーティング対象のハンドラー一式
type Handlers struct {
	Auth    *handler.AuthHandler
	Event   *handler.EventHandler
	Venue   *handler.VenueHandler
	Seat    *handler.SeatHandler
	Show    *handler.ShowHandler
	Booking *handler.BookingHandler
	Review  *handler.ReviewHandler
	Admin   *handler.AdminHandler
	Health  *handler.HealthHandler
}

// Options はルーターの任意設定
type Options struct {
	Tokens middleware.TokenParser
	// BookingLimiter が nil の場合は予約作成のレート制限を行わない
	BookingLimiter middleware.Limiter
	Metrics        *metrics.Metrics
	MetricsAuth    *config.MetricsConfig
	// Gatherer が nil の場合はデフォルトレジストリを公開する
	Gatherer prometheus.Gatherer
	// Tracer が nil の場合はトレースしない
	Tracer trace.Tracer
}

// New はミドルウェアとルートを設定した Echo を返す
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e)
	if opts.Tracer != nil {
		e.Use(middleware.Tracing(opts.Tracer))
	}
	if opts.Metrics != nil {
		e.Use(middleware.PrometheusMiddleware(opts.Metrics))
	}

	e.GET("/health", h.Health.Check)
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metricsAuth := opts.MetricsAuth
	if metricsAuth == nil {
		metricsAuth = &config.MetricsConfig{}
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
		middleware.MetricsBasicAuth(metricsAuth))

	v1 := e.Group("/api/v1")
	auth := middleware.JWTAuth(opts.Tokens)
	admin := middleware.RequireRole(string(user.RoleAdmin))

	// 認証
	v1.POST("/auth/register", h.Auth.Register)
	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/auth/bootstrap-admin", h.Auth.BootstrapAdmin)
	v1.GET("/auth/me", h.Auth.Me, auth)

	// カタログ
	v1.GET("/categories", h.Event.ListCategories)
	v1.GET("/events", h.Event.List)
	v1.POST("/events", h.Event.Create, auth, admin)
	v1.GET("/events/:id", h.Event.GetByID)
	v1.PUT("/events/:id", h.Event.Update, auth, admin)
	v1.GET("/events/:id/reviews", h.Event.ListReviews)

	v1.GET("/venues", h.Venue.List)
	v1.POST("/venues", h.Venue.Create, auth, admin)
	v1.GET("/venues/:id", h.Venue.GetByID)
	v1.GET("/venues/:id/seats", h.Seat.ListByVenue)
	v1.POST("/venues/:id/seats", h.Seat.Add, auth, admin)
	v1.POST("/venues/:id/seats/layout", h.Seat.GenerateLayout, auth, admin)

	v1.GET("/shows", h.Show.List)
	v1.POST("/shows", h.Show.Create, auth, admin)
	v1.GET("/shows/:id", h.Show.GetByID)
	v1.GET("/shows/:id/seats", h.Show.ListSeats)
	v1.GET("/shows/:id/seats/available/count", h.Show.CountAvailable)

	// 予約
	bookings := v1.Group("/bookings", auth)
	createBooking := []echo.MiddlewareFunc{}
	if opts.BookingLimiter != nil {
		createBooking = append(createBooking, middleware.RateLimit(opts.BookingLimiter, "bookings"))
	}
	bookings.POST("", h.Booking.Create, createBooking...)
	bookings.GET("", h.Booking.List)
	bookings.GET("/:id", h.Booking.GetByID)
	bookings.POST("/:id/confirm", h.Booking.Confirm)
	bookings.POST("/:id/cancel", h.Booking.Cancel)

	// レビュー
	v1.POST("/reviews", h.Review.Upsert, auth)
	v1.DELETE("/reviews/:id", h.Review.Delete, auth)

	// 管理
	adminGroup := v1.Group("/admin", auth, admin)
	adminGroup.GET("/dashboard", h.Admin.Dashboard)
	adminGroup.GET("/logs", h.Admin.Logs)
	adminGroup.GET("/users", h.Admin.ListUsers)
	adminGroup.GET("/users/:id", h.Admin.GetUser)
	adminGroup.GET("/users/:id/bookings", h.Admin.ListUserBookings)

	return e
}
