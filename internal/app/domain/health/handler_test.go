package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/", h.Root)
	r.GET("/api/health", h.Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRoot(t *testing.T) {
	w := serve(NewHandler(pingerFunc(func(context.Context) error { return nil }), zap.NewNop()), "/api/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"مسیر - سیستم نقشه‌برداری جمعی","version":"2.0","status":"healthy"}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		ping     error
		status   string
		database string
	}{
		{name: "database up", status: "healthy", database: "healthy"},
		{name: "database down", ping: errors.New("dial tcp: refused"), status: "degraded", database: "unhealthy: dial tcp: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(pingerFunc(func(context.Context) error { return tt.ping }), zap.NewNop())
			w := serve(h, "/api/health")
			require.Equal(t, http.StatusOK, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.database, resp.Database)
			assert.Equal(t, Version, resp.Version)
		})
	}
}
