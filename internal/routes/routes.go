package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/domain/auth"
	"github.com/FACorreiaa/masir/internal/app/domain/health"
	"github.com/FACorreiaa/masir/internal/app/domain/location"
	"github.com/FACorreiaa/masir/internal/app/domain/notifications"
	"github.com/FACorreiaa/masir/internal/app/domain/poi"
	"github.com/FACorreiaa/masir/internal/app/domain/roads"
	"github.com/FACorreiaa/masir/internal/app/domain/statistics"
	"github.com/FACorreiaa/masir/internal/app/middleware"
	"github.com/FACorreiaa/masir/internal/app/models"
	"github.com/FACorreiaa/masir/internal/app/observability/metrics"
	database "github.com/FACorreiaa/masir/internal/db"
	"github.com/FACorreiaa/masir/internal/pkg/cache"
	"github.com/FACorreiaa/masir/internal/pkg/config"
	"github.com/FACorreiaa/masir/internal/pkg/events"
)

// Dependencies are the shared resources every domain is built from.
type Dependencies struct {
	Pool      database.Pool
	Publisher events.Publisher
	Config    *config.Config
	Logger    *zap.Logger
}

type AppHandlers struct {
	Auth          *auth.AuthHandlers
	Roads         *roads.Handler
	POIs          *poi.Handler
	Locations     *location.Handler
	Notifications *notifications.Handler
	Statistics    *statistics.Handler
	Health        *health.Handler

	authenticator middleware.Authenticator
}

// NewAppHandlers wires repositories, services and handlers for every domain.
func NewAppHandlers(deps Dependencies) *AppHandlers {
	logger := deps.Logger
	cfg := deps.Config

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)
	authService := auth.NewAuthService(auth.NewPostgresAuthRepo(deps.Pool, logger), tokens, logger)

	notificationService := notifications.NewService(
		notifications.NewPostgresRepository(deps.Pool, logger), deps.Publisher, logger)

	roadService := roads.NewService(
		roads.NewPostgresRepository(deps.Pool, logger), notificationService, cfg.CoinsPerApprovedRoad, logger)
	poiService := poi.NewService(
		poi.NewPostgresRepository(deps.Pool, logger), notificationService, logger)
	locationService := location.NewService(
		location.NewPostgresRepository(deps.Pool, logger), logger)
	var statsCache *cache.TTLCache[models.Stats]
	if cfg.StatsCacheTTL > 0 {
		statsCache = cache.New[models.Stats](cfg.StatsCacheTTL, "admin_stats", logger)
		if err := metrics.RegisterCacheObserver(statsCache.Name(), statsCache.Counters); err != nil {
			logger.Warn("Failed to register cache metrics", zap.String("cache", statsCache.Name()), zap.Error(err))
		}
	}
	statisticsService := statistics.NewService(
		statistics.NewPostgresRepository(deps.Pool, logger), statsCache, logger)

	return &AppHandlers{
		Auth:          auth.NewAuthHandlers(authService, logger),
		Roads:         roads.NewHandler(roadService, logger),
		POIs:          poi.NewHandler(poiService, logger),
		Locations:     location.NewHandler(locationService, logger),
		Notifications: notifications.NewHandler(notificationService, logger),
		Statistics:    statistics.NewHandler(statisticsService, logger),
		Health:        health.NewHandler(deps.Pool, logger),
		authenticator: authService,
	}
}

// Setup registers the /api tree on r.
func Setup(r gin.IRouter, deps Dependencies) *AppHandlers {
	h := NewAppHandlers(deps)
	requireAuth := middleware.AuthMiddleware(h.authenticator)

	api := r.Group("/api")
	api.GET("/", h.Health.Root)
	api.GET("/health", h.Health.Health)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/me", requireAuth, h.Auth.Me)
	}

	roadGroup := api.Group("/roads")
	{
		roadGroup.GET("", h.Roads.List)
		roadGroup.POST("", requireAuth, h.Roads.Submit)
		roadGroup.GET("/user", requireAuth, h.Roads.ListMine)
	}

	poiGroup := api.Group("/pois")
	{
		poiGroup.GET("", h.POIs.List)
		poiGroup.POST("", requireAuth, h.POIs.Submit)
	}

	locationGroup := api.Group("/locations/personal", requireAuth)
	{
		locationGroup.GET("", h.Locations.List)
		locationGroup.POST("", h.Locations.Create)
	}

	notificationGroup := api.Group("/notifications", requireAuth)
	{
		notificationGroup.GET("", h.Notifications.List)
		notificationGroup.PUT("/:id/read", h.Notifications.MarkRead)
	}

	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	{
		admin.PUT("/roads/:id/approve", h.Roads.Approve)
		admin.PUT("/roads/:id/reject", h.Roads.Reject)
		admin.PUT("/pois/:id/approve", h.POIs.Approve)
		admin.PUT("/pois/:id/reject", h.POIs.Reject)
		admin.POST("/notifications/broadcast", h.Notifications.Broadcast)
		admin.GET("/stats", h.Statistics.GetStats)
	}

	return h
}
