package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/compress/gzhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	database "github.com/FACorreiaa/masir/internal/db"
	"github.com/FACorreiaa/masir/internal/pkg/config"
	"github.com/FACorreiaa/masir/internal/pkg/events"
	"github.com/FACorreiaa/masir/internal/pkg/ratelimit"
	"github.com/FACorreiaa/masir/internal/routes"
)

// gzipMinSize is the smallest response body that gets compressed.
const gzipMinSize = 1000

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg       *config.Config
	logger    *zap.Logger
	dbPool    *pgxpool.Pool
	redis     *redis.Client
	limiter   ratelimit.Limiter
	publisher events.Publisher
	router    http.Handler
}

// New creates a new Server instance with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	dbPool, err := s.setupDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	s.dbPool = dbPool

	if err := s.setupRateLimiter(ctx); err != nil {
		s.Close()
		return nil, err
	}
	s.setupPublisher()

	return s, nil
}

// setupDatabase initializes the database connection and runs migrations
func (s *Server) setupDatabase(ctx context.Context) (*pgxpool.Pool, error) {
	s.logger.Info("Setting up database connection and migrations")

	dbConfig, err := database.NewDatabaseConfig(s.cfg, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database configuration: %w", err)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, s.cfg.Repositories.Postgres, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}

	if !database.WaitForDB(ctx, pool, s.logger) {
		pool.Close()
		return nil, fmt.Errorf("database did not become ready")
	}
	s.logger.Info("Connected to Postgres",
		zap.String("host", s.cfg.Repositories.Postgres.Host),
		zap.String("port", s.cfg.Repositories.Postgres.Port),
		zap.String("database", s.cfg.Repositories.Postgres.DB))

	if err = database.RunMigrations(dbConfig.ConnectionURL, s.logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.logger.Info("Database setup completed successfully")
	return pool, nil
}

// setupRateLimiter picks the shared Redis limiter when REDIS_ADDR is set and
// the process-local one otherwise.
func (s *Server) setupRateLimiter(ctx context.Context) error {
	limits := ratelimit.Limits{PerMinute: s.cfg.RateLimit.PerMinute, PerHour: s.cfg.RateLimit.PerHour}
	rc := s.cfg.Repositories.Redis
	if rc.Addr == "" {
		s.limiter = ratelimit.NewMemoryLimiter(limits)
		s.logger.Info("Using in-memory rate limiter", zap.Int("per_minute", limits.PerMinute), zap.Int("per_hour", limits.PerHour))
		return nil
	}

	client, err := ratelimit.NewRedisClient(ctx, rc.Addr, rc.Password, rc.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.redis = client
	s.limiter = ratelimit.NewRedisLimiter(client, limits)
	s.logger.Info("Using Redis rate limiter", zap.String("addr", rc.Addr))
	return nil
}

// setupPublisher connects to the AMQP broker if one is configured. A broker
// that cannot be reached degrades to the no-op publisher.
func (s *Server) setupPublisher() {
	s.publisher = events.NoopPublisher{}
	if s.cfg.AMQP.URL == "" {
		return
	}
	pub, err := events.NewAMQPPublisher(s.cfg.AMQP.URL, s.cfg.AMQP.Exchange)
	if err != nil {
		s.logger.Warn("AMQP broker unavailable, notification events disabled", zap.Error(err))
		return
	}
	s.publisher = pub
	s.logger.Info("Publishing notification events", zap.String("exchange", s.cfg.AMQP.Exchange))
}

// Dependencies returns what the route layer needs to build the domains.
func (s *Server) Dependencies() routes.Dependencies {
	return routes.Dependencies{
		Pool:      s.dbPool,
		Publisher: s.publisher,
		Config:    s.cfg,
		Logger:    s.logger,
	}
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() (*http.Server, error) {
	gzipWrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		return nil, fmt.Errorf("failed to build gzip wrapper: %w", err)
	}
	return &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           gzipWrapper(s.router),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}, nil
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// Limiter returns the configured rate limiter
func (s *Server) Limiter() ratelimit.Limiter {
	return s.limiter
}

// Close closes all server resources
func (s *Server) Close() {
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}
