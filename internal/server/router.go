package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/masir/internal/app/domain"
	"github.com/FACorreiaa/masir/internal/app/middleware"
	"github.com/FACorreiaa/masir/internal/pkg/ratelimit"
	"github.com/FACorreiaa/masir/internal/routes"
)

// Health endpoints bypass rate limiting.
var rateLimitExempt = []string{"/api/", "/api/health"}

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(deps routes.Dependencies, limiter ratelimit.Limiter) *gin.Engine {
	logger := deps.Logger
	r := gin.New()
	if err := r.SetTrustedProxies(deps.Config.TrustedProxies); err != nil {
		logger.Error("Invalid trusted proxies, using the peer address as client IP", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  rateLimitExempt,
	}))
	r.Use(ginzap.CustomRecoveryWithZap(logger, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.ErrorResponse{Detail: domain.MsgInternal})
	}))
	r.Use(middleware.OTELGinMiddleware(deps.Config.Observability.ServiceName))
	r.Use(middleware.CORSMiddleware(deps.Config.CORSOrigins))
	r.Use(middleware.SecurityMiddleware())
	r.Use(middleware.ProcessTimeMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RateLimitMiddleware(limiter, logger, rateLimitExempt...))

	routes.Setup(r, deps)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, domain.ErrorResponse{Detail: "یافت نشد"})
	})

	return r
}

// zapContextFunc adds request and trace identifiers to the access log. Bodies
// are not logged since they carry passwords.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{zap.String("client_ip", c.ClientIP())}

		if requestID := c.GetHeader("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if user := middleware.GetUserFromContext(c); user != nil {
			fields = append(fields, zap.String("user_id", user.ID.String()))
		}

		return fields
	}
}
