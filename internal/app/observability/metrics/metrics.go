package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const meterName = "masir-api"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal        metric.Int64Counter
	HTTPRequestDuration      metric.Float64Histogram
	SubmissionsTotal         metric.Int64Counter
	ReviewsTotal             metric.Int64Counter
	NotificationsFailedTotal metric.Int64Counter
	RateLimitedTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments from the global MeterProvider. Only the first call has effect,
// so the provider must be installed before it runs.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		m := &AppMetrics{}
		var err error

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		logInitErr("http_requests_total", err)

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		logInitErr("http_request_duration_seconds", err)

		m.SubmissionsTotal, err = meter.Int64Counter(
			"submissions_total",
			metric.WithDescription("Road and POI submissions accepted for review"),
			metric.WithUnit("{submission}"),
		)
		logInitErr("submissions_total", err)

		m.ReviewsTotal, err = meter.Int64Counter(
			"reviews_total",
			metric.WithDescription("Administrative review decisions applied"),
			metric.WithUnit("{review}"),
		)
		logInitErr("reviews_total", err)

		m.NotificationsFailedTotal, err = meter.Int64Counter(
			"notifications_failed_total",
			metric.WithDescription("Notifications that could not be persisted"),
			metric.WithUnit("{notification}"),
		)
		logInitErr("notifications_failed_total", err)

		m.RateLimitedTotal, err = meter.Int64Counter(
			"rate_limited_total",
			metric.WithDescription("Requests rejected by the rate limiter"),
			metric.WithUnit("{request}"),
		)
		logInitErr("rate_limited_total", err)

		appMetrics = m
	})
}

func logInitErr(name string, err error) {
	if err != nil {
		zap.L().Error("Metrics: failed to create instrument", zap.String("instrument", name), zap.Error(err))
	}
}

// Get returns the instruments, initialising them against the current global provider on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// RecordSubmission counts one accepted submission of the given kind (road, poi).
func RecordSubmission(ctx context.Context, kind string) {
	if m := Get(); m.SubmissionsTotal != nil {
		m.SubmissionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

// RecordReview counts one applied review decision.
func RecordReview(ctx context.Context, kind, decision string) {
	if m := Get(); m.ReviewsTotal != nil {
		m.ReviewsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("decision", decision),
		))
	}
}

func RecordNotificationFailure(ctx context.Context) {
	if m := Get(); m.NotificationsFailedTotal != nil {
		m.NotificationsFailedTotal.Add(ctx, 1)
	}
}

func RecordRateLimited(ctx context.Context, window string) {
	if m := Get(); m.RateLimitedTotal != nil {
		m.RateLimitedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("window", window)))
	}
}

// RegisterCacheObserver exports the counters returned by read as observable
// counters labelled with the cache name.
func RegisterCacheObserver(name string, read func() (hits, misses, sets int64)) error {
	meter := otel.GetMeterProvider().Meter(meterName)

	hits, err := meter.Int64ObservableCounter("cache_hits_total",
		metric.WithDescription("Cache lookups served from memory"), metric.WithUnit("{lookup}"))
	if err != nil {
		return err
	}
	misses, err := meter.Int64ObservableCounter("cache_misses_total",
		metric.WithDescription("Cache lookups that fell through to the source"), metric.WithUnit("{lookup}"))
	if err != nil {
		return err
	}
	sets, err := meter.Int64ObservableCounter("cache_sets_total",
		metric.WithDescription("Values written to the cache"), metric.WithUnit("{write}"))
	if err != nil {
		return err
	}

	attrs := metric.WithAttributes(attribute.String("cache", name))
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		h, m, s := read()
		o.ObserveInt64(hits, h, attrs)
		o.ObserveInt64(misses, m, attrs)
		o.ObserveInt64(sets, s, attrs)
		return nil
	}, hits, misses, sets)
	return err
}
