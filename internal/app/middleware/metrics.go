package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/masir/internal/app/observability/metrics"
)

// MetricsMiddleware records request counts and latency per route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.String("http.status_code", strconv.Itoa(c.Writer.Status())),
		)
		m := metrics.Get()
		ctx := c.Request.Context()
		if m.HTTPRequestsTotal != nil {
			m.HTTPRequestsTotal.Add(ctx, 1, attrs)
		}
		if m.HTTPRequestDuration != nil {
			m.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		}
	}
}
