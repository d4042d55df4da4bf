package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-show-ticket-booking/internal/api/handler"
	"github.com/sanosuguru/go-show-ticket-booking/internal/api/middleware"
	"github.com/sanosuguru/go-show-ticket-booking/internal/api/router"
	"github.com/sanosuguru/go-show-ticket-booking/internal/application"
	"github.com/sanosuguru/go-show-ticket-booking/internal/config"
	"github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/postgres"
	"github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/rabbitmq"
	redisinfra "github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/redis"
	"github.com/sanosuguru/go-show-ticket-booking/internal/infrastructure/security"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/logger"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/metrics"
	"github.com/sanosuguru/go-show-ticket-booking/internal/pkg/tracing"
	"github.com/sanosuguru/go-show-ticket-booking/internal/worker"
)

func main() {
	cfg := config.Load()
	logger.Set(logger.NewLogger(cfg.Env))
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Fatal("起動に失敗しました", zap.Error(err))
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate(); err != nil {
		return err
	}

	// トレース
	shutdownTracing, err := tracing.Setup(ctx, &cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("トレーサーの終了に失敗", zap.Error(err))
		}
	}()

	// データベース
	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.RunMigrations(db.DB, cfg.Server.MigrationsPath); err != nil {
		return fmt.Errorf("マイグレーションに失敗: %w", err)
	}

	// Redis は任意。接続できなければロック・キャッシュ・レート制限なしで動かす
	redisClient, err := redisinfra.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn("Redisに接続できません。分散ロック・キャッシュ・レート制限を無効にします", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	m := metrics.New()

	// リポジトリ
	txManager := postgres.NewTxManager(db)
	bookingRepo := postgres.NewBookingRepository(db)
	showRepo := postgres.NewShowRepository(db)
	seatRepo := postgres.NewSeatRepository(db)
	venueRepo := postgres.NewVenueRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	userRepo := postgres.NewUserRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	bookingOpts := []application.BookingOption{
		application.WithHoldTTL(cfg.Booking.HoldTTL),
		application.WithMaxSeats(cfg.Booking.MaxSeats),
		application.WithMetrics(m),
		application.WithTracer(tracing.Tracer()),
	}
	var (
		seatCache      application.SeatCache
		bookingLimiter middleware.Limiter
		lockManager    *redisinfra.LockManager
	)
	if redisClient != nil {
		lockManager = redisinfra.NewLockManager(redisClient)
		cache := redisinfra.NewSeatCache(redisClient, cfg.Redis.SeatCacheTTL)
		seatCache = cache
		bookingOpts = append(bookingOpts,
			application.WithLockManager(lockManager, cfg.Booking.LockTTL, cfg.Booking.LockRetries),
			application.WithSeatCache(cache),
		)
		if cfg.RateLimit.Enabled {
			bookingLimiter = redisinfra.NewRateLimiter(redisClient,
				cfg.RateLimit.Capacity, cfg.RateLimit.RefillTokens, cfg.RateLimit.RefillInterval)
		}
	}

	// 予約イベント配信
	var relay *worker.OutboxRelay
	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.NewPublisher(&cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer publisher.Close()
		bookingOpts = append(bookingOpts, application.WithOutbox(outboxRepo))
		relay = worker.NewOutboxRelay(txManager, outboxRepo, publisher, cfg.RabbitMQ.RelayInterval, m)
	} else {
		logger.Info("RABBITMQ_URL が未設定のため予約イベントを配信しません")
	}

	// サービス
	bookingService := application.NewBookingService(txManager, bookingRepo, showRepo, seatRepo, bookingOpts...)
	authService := application.NewAuthService(userRepo,
		security.NewPasswordHasher(cfg.Auth.BcryptCost),
		security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		cfg.Auth.SetupToken)
	eventService := application.NewEventService(eventRepo, reviewRepo)
	venueService := application.NewVenueService(venueRepo)
	seatService := application.NewSeatService(txManager, seatRepo, venueRepo, showRepo)
	showService := application.NewShowService(txManager, showRepo, eventRepo, venueRepo, seatRepo, seatCache)
	reviewService := application.NewReviewService(reviewRepo, eventRepo)
	adminService := application.NewAdminService(reportRepo, userRepo, bookingRepo)

	e := router.New(router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Event:   handler.NewEventHandler(eventService, reviewService),
		Venue:   handler.NewVenueHandler(venueService),
		Seat:    handler.NewSeatHandler(seatService),
		Show:    handler.NewShowHandler(showService),
		Booking: handler.NewBookingHandler(bookingService),
		Review:  handler.NewReviewHandler(reviewService),
		Admin:   handler.NewAdminHandler(adminService),
		Health:  handler.NewHealthHandler(databaseCheck(db), redisCheck(redisClient)),
	}, router.Options{
		Tokens:         security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		BookingLimiter: bookingLimiter,
		Metrics:        m,
		MetricsAuth:    &cfg.Metrics,
		Tracer:         tracing.Tracer(),
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// ワーカー
	cleanerOpts := []worker.CleanerOption{}
	if lockManager != nil {
		cleanerOpts = append(cleanerOpts, worker.WithLeaderLock(lockManager, cfg.Booking.CleanupInterval))
	}
	cleaner := worker.NewExpiredBookingCleaner(bookingService, cfg.Booking.CleanupInterval, cfg.Booking.CleanupBatch, cleanerOpts...)
	go cleaner.Start(ctx)
	if relay != nil {
		go relay.Start(ctx)
	}

	// サーバー起動
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("サーバーを起動します", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		return fmt.Errorf("サーバー起動エラー: %w", err)
	}

	logger.Info("サーバーをシャットダウンしています...")
	cleaner.Stop()
	if relay != nil {
		relay.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("サーバーシャットダウンエラー: %w", err)
	}

	logger.Info("サーバーが正常にシャットダウンしました")
	return nil
}

func databaseCheck(db *sqlx.DB) handler.HealthCheck {
	return func(ctx context.Context) error {
		return postgres.Ping(ctx, db)
	}
}

func redisCheck(client *redis.Client) handler.HealthCheck {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return redisinfra.Ping(ctx, client)
	}
}
