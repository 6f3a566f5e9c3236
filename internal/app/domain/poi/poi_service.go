package poi

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/domain/notifications"
	"github.com/FACorreiaa/masir/internal/app/models"
	"github.com/FACorreiaa/masir/internal/app/observability/metrics"
)

type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, req models.CreatePOIRequest) (*models.POI, error)
	List(ctx context.Context, filter models.SubmissionFilter, page models.PageParams) (models.Page[models.POI], error)
	Review(ctx context.Context, id uuid.UUID, decision models.ReviewDecision) (*models.POI, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger   *zap.Logger
	repo     Repository
	notifier notifications.Notifier
}

func NewService(repo Repository, notifier notifications.Notifier, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, notifier: notifier}
}

func (s *ServiceImpl) Submit(ctx context.Context, userID uuid.UUID, req models.CreatePOIRequest) (*models.POI, error) {
	p, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordSubmission(ctx, "poi")
	s.logger.Info("POI submitted",
		zap.String("method", "Submit"),
		zap.String("userID", userID.String()),
		zap.String("poiID", p.ID.String()))
	return p, nil
}

func (s *ServiceImpl) List(ctx context.Context, filter models.SubmissionFilter, page models.PageParams) (models.Page[models.POI], error) {
	if filter.Category != "" && !slices.Contains(models.POICategories, filter.Category) {
		return models.Page[models.POI]{}, models.WithDetail(models.ErrValidation, "دسته‌بندی مکان نامعتبر است")
	}
	items, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return models.Page[models.POI]{}, err
	}
	return models.NewPage(items, total, page), nil
}

func (s *ServiceImpl) Review(ctx context.Context, id uuid.UUID, decision models.ReviewDecision) (*models.POI, error) {
	l := s.logger.With(zap.String("method", "Review"), zap.String("poiID", id.String()), zap.String("decision", string(decision)))

	p, err := s.repo.Review(ctx, id, decision.Status())
	if err != nil {
		l.Warn("POI review failed", zap.Error(err))
		return nil, err
	}
	metrics.RecordReview(ctx, "poi", string(decision))

	if decision == models.DecisionApprove {
		s.notifier.Notify(ctx, p.UserID, "مکان تایید شد", fmt.Sprintf("مکان '%s' ثبت شده شما تایید شد.", p.Name))
	} else {
		s.notifier.Notify(ctx, p.UserID, "مکان رد شد", fmt.Sprintf("متاسفانه مکان '%s' ثبت شده شما تایید نشد.", p.Name))
	}

	l.Info("POI reviewed")
	return p, nil
}
