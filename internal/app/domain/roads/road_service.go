package roads

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/domain/notifications"
	"github.com/FACorreiaa/masir/internal/app/models"
	"github.com/FACorreiaa/masir/internal/app/observability/metrics"
)

// UserListLimit caps GET /roads/user.
const UserListLimit = 1000

type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, req models.CreateRoadRequest) (*models.RoadSubmission, error)
	List(ctx context.Context, status models.SubmissionStatus, page models.PageParams) (models.Page[models.RoadSubmission], error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RoadSubmission, error)
	Review(ctx context.Context, id uuid.UUID, decision models.ReviewDecision) (*models.RoadSubmission, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger       *zap.Logger
	repo         Repository
	notifier     notifications.Notifier
	coinsPerRoad int
}

func NewService(repo Repository, notifier notifications.Notifier, coinsPerRoad int, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo, notifier: notifier, coinsPerRoad: coinsPerRoad}
}

func (s *ServiceImpl) Submit(ctx context.Context, userID uuid.UUID, req models.CreateRoadRequest) (*models.RoadSubmission, error) {
	l := s.logger.With(zap.String("method", "Submit"), zap.String("userID", userID.String()))

	road, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	metrics.RecordSubmission(ctx, "road")

	s.notifier.Notify(ctx, userID,
		"مسیر ثبت شد",
		"مسیر شما با موفقیت ثبت شد و بعد از تایید، سکه به شما اضافه خواهد شد.")

	l.Info("Road submitted", zap.String("roadID", road.ID.String()), zap.String("roadName", road.RoadName))
	return road, nil
}

func (s *ServiceImpl) List(ctx context.Context, status models.SubmissionStatus, page models.PageParams) (models.Page[models.RoadSubmission], error) {
	items, total, err := s.repo.List(ctx, status, page)
	if err != nil {
		return models.Page[models.RoadSubmission]{}, err
	}
	return models.NewPage(items, total, page), nil
}

func (s *ServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RoadSubmission, error) {
	return s.repo.ListByUser(ctx, userID, UserListLimit)
}

// Review applies an administrator's decision. Approval credits the owner with
// the configured coin award in the same transaction as the status change.
func (s *ServiceImpl) Review(ctx context.Context, id uuid.UUID, decision models.ReviewDecision) (*models.RoadSubmission, error) {
	l := s.logger.With(zap.String("method", "Review"), zap.String("roadID", id.String()), zap.String("decision", string(decision)))

	coins := 0
	if decision == models.DecisionApprove {
		coins = s.coinsPerRoad
	}

	road, err := s.repo.Review(ctx, id, decision.Status(), coins)
	if err != nil {
		l.Warn("Road review failed", zap.Error(err))
		return nil, err
	}
	metrics.RecordReview(ctx, "road", string(decision))

	if decision == models.DecisionApprove {
		s.notifier.Notify(ctx, road.UserID,
			"سکه دریافت شد!",
			fmt.Sprintf("تبریک! مسیر '%s' شما تایید شد و %d سکه مسیر به شما اضافه شد.", road.RoadName, coins))
	} else {
		s.notifier.Notify(ctx, road.UserID,
			"مسیر رد شد",
			fmt.Sprintf("متاسفانه مسیر '%s' ثبت شده شما تایید نشد.", road.RoadName))
	}

	l.Info("Road reviewed", zap.String("ownerID", road.UserID.String()))
	return road, nil
}
