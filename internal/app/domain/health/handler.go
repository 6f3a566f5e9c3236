package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	Version     = "2.0"
	pingTimeout = 2 * time.Second
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

type Handler struct {
	logger *zap.Logger
	db     Pinger
}

func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{logger: logger, db: db}
}

// Root handles GET /api/
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Message: "مسیر - سیستم نقشه‌برداری جمعی",
		Version: Version,
		Status:  "healthy",
	})
}

// Health handles GET /api/health. A failed database ping degrades the
// status but the endpoint itself still answers 200.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	resp := Response{Status: "healthy", Database: "healthy", Version: Version}
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Database health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unhealthy: " + err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
