package location

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
)

// ListLimit caps GET /locations/personal.
const ListLimit = 100

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req models.CreatePersonalLocationRequest) (*models.PersonalLocation, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.PersonalLocation, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) Create(ctx context.Context, userID uuid.UUID, req models.CreatePersonalLocationRequest) (*models.PersonalLocation, error) {
	loc, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Personal location saved", zap.String("userID", userID.String()), zap.String("locationID", loc.ID.String()))
	return loc, nil
}

func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]models.PersonalLocation, error) {
	return s.repo.ListByUser(ctx, userID, ListLimit)
}
