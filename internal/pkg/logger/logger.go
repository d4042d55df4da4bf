package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName はすべてのログに付与するサービス名
const ServiceName = "show-ticket-booking"

var log *zap.Logger

func init() {
	log = NewLogger("development")
}

// NewLogger は環境に応じたロガーを作成する
// production では JSON、それ以外はカラー付きのコンソール出力。LOG_LEVEL で出力レベルを上書きできる
func NewLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.InitialFields = map[string]any{"service": ServiceName, "env": env}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level, ok := levelFromEnv(); ok {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func levelFromEnv() (zapcore.Level, bool) {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		return zapcore.InfoLevel, false
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return zapcore.InfoLevel, false
	}
	return level, true
}

type ctxKey struct{}

// NewContext はリクエスト単位のロガーをコンテキストに格納する
func NewContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext はコンテキストのロガーを返す。なければグローバルロガー
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return log
}

func Get() *zap.Logger {
	return log
}

func Set(l *zap.Logger) {
	log = l
}

func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	log.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	log.Fatal(msg, fields...)
}

func With(fields ...zap.Field) *zap.Logger {
	return log.With(fields...)
}

func Sync() error {
	return log.Sync()
}
