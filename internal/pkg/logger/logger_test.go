package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		logLevel string
		debugOn  bool
	}{
		{"開発環境はdebugを出力する", "development", "", true},
		{"本番環境はinfo以上", "production", "", false},
		{"LOG_LEVELで上書きできる", "production", "debug", true},
		{"開発環境でもLOG_LEVEL=warnならdebugを出さない", "development", "warn", false},
		{"不正なLOG_LEVELは無視する", "production", "invalid_level", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevel)

			l := NewLogger(tt.env)

			require.NotNil(t, l)
			assert.Equal(t, tt.debugOn, l.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestSet_グローバルロガーを差し替える(t *testing.T) {
	original := Get()
	defer Set(original)

	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))

	Info("予約を作成", zap.String("booking_id", "b1"))
	Warn("ロック取得に失敗")
	Error("コミットに失敗")
	Debug("キャッシュヒット")
	With(zap.String("show_id", "s1")).Info("公演を作成")

	entries := logs.All()
	require.Len(t, entries, 5)
	assert.Equal(t, "予約を作成", entries[0].Message)
	assert.Equal(t, "b1", entries[0].ContextMap()["booking_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
	assert.Equal(t, "s1", entries[4].ContextMap()["show_id"])
	assert.NotPanics(t, func() { _ = Sync() })
}

func TestFromContext(t *testing.T) {
	t.Run("コンテキストのロガーを返す", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		scoped := zap.New(core).With(zap.String("request_id", "req-1"))

		ctx := NewContext(context.Background(), scoped)
		FromContext(ctx).Info("座席を仮押さえ")

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-1", logs.All()[0].ContextMap()["request_id"])
	})

	t.Run("なければグローバルロガー", func(t *testing.T) {
		assert.Same(t, Get(), FromContext(context.Background()))
	})
}
