package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanosuguru/go-show-ticket-booking/internal/config"
)

// TracerName はアプリケーション内で使うトレーサー名
const TracerName = "github.com/sanosuguru/go-show-ticket-booking"

// ShutdownFunc はトレーサーの終了処理
type ShutdownFunc func(ctx context.Context) error

// Setup は OTLP/gRPC エクスポーターでトレーサーを初期化する
// Endpoint が未設定の場合はグローバルの no-op トレーサーのまま何もしない
func Setup(ctx context.Context, cfg *config.TracingConfig) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("OTLPエクスポーターの作成に失敗: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("リソースの作成に失敗: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Tracer はグローバルプロバイダーからトレーサーを返す
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
