package statistics

import (
	"context"

	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
	"github.com/FACorreiaa/masir/internal/pkg/cache"
)

const statsCacheKey = "admin_stats"

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetStats(ctx context.Context) (*models.Stats, error)
}

type ServiceImpl struct {
	repo   Repository
	cache  *cache.TTLCache[models.Stats]
	logger *zap.Logger
}

// NewService builds the statistics service. A nil statsCache queries the
// database on every call.
func NewService(repo Repository, statsCache *cache.TTLCache[models.Stats], logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		cache:  statsCache,
		logger: logger,
	}
}

func (s *ServiceImpl) GetStats(ctx context.Context) (*models.Stats, error) {
	l := s.logger.With(zap.String("method", "GetStats"))
	if s.cache != nil {
		if cached, ok := s.cache.Get(statsCacheKey); ok {
			return &cached, nil
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		l.Error("Failed to get statistics", zap.Error(err))
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(statsCacheKey, *stats)
	}

	l.Debug("Successfully retrieved statistics",
		zap.Int64("users", stats.Users),
		zap.Int64("roads", stats.RoadsTotal),
		zap.Int64("pois", stats.POIsTotal))
	return stats, nil
}
