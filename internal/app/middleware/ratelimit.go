package middleware

import (
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
	"github.com/FACorreiaa/masir/internal/app/observability/metrics"
	"github.com/FACorreiaa/masir/internal/pkg/ratelimit"
)

const (
	msgMinuteLimit = "تعداد درخواست‌ها بیش از حد مجاز است. لطفا کمی صبر کنید."
	msgHourLimit   = "تعداد درخواست‌های ساعتی شما به حد مجاز رسیده است."
)

// RateLimitMiddleware admits requests per client address through limiter.
// Paths in exempt bypass the limiter. Limiter failures let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, logger *zap.Logger, exempt ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if slices.Contains(exempt, c.Request.URL.Path) {
			c.Next()
			return
		}

		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit-Minute", strconv.Itoa(res.LimitMinute))
		h.Set("X-RateLimit-Remaining-Minute", strconv.Itoa(res.RemainingMinute))
		h.Set("X-RateLimit-Limit-Hour", strconv.Itoa(res.LimitHour))
		h.Set("X-RateLimit-Remaining-Hour", strconv.Itoa(res.RemainingHour))

		if !res.Allowed {
			metrics.RecordRateLimited(c.Request.Context(), string(res.Exceeded))
			msg, retry := msgMinuteLimit, "60"
			if res.Exceeded == ratelimit.WindowHour {
				msg, retry = msgHourLimit, "3600"
			}
			h.Set("Retry-After", retry)
			logger.Info("Rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("window", string(res.Exceeded)))
			abortWithError(c, models.WithDetail(models.ErrRateLimited, msg))
			return
		}

		c.Next()
	}
}
