package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthy(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler_Check(t *testing.T) {
	tests := []struct {
		name       string
		database   HealthCheck
		redis      HealthCheck
		wantCode   int
		wantStatus string
		wantRedis  string
	}{
		{"全て正常", healthy, healthy, http.StatusOK, "ok", "ok"},
		{"Redis未使用", healthy, nil, http.StatusOK, "ok", "disabled"},
		{"Redis障害は degraded", healthy, failing, http.StatusOK, "degraded", "error"},
		{"DB障害は503", failing, healthy, http.StatusServiceUnavailable, "unavailable", "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewTestEcho()
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := NewHealthHandler(tt.database, tt.redis).Check(c)

			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantRedis, resp.Checks["redis"])
			assert.NotEmpty(t, resp.Timestamp)
		})
	}
}
