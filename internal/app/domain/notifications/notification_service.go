package notifications

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
	"github.com/FACorreiaa/masir/internal/app/observability/metrics"
	"github.com/FACorreiaa/masir/internal/pkg/events"
)

// ListLimit caps GET /notifications.
const ListLimit = 100

// Notifier stores a notification for a user. Failures are logged and never
// propagated; the result reports whether the notification was persisted.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message string) bool
}

type Service interface {
	Notifier
	List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	Broadcast(ctx context.Context, req models.BroadcastRequest) (*models.BroadcastResult, error)
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger    *zap.Logger
	repo      Repository
	publisher events.Publisher
}

func NewService(repo Repository, publisher events.Publisher, logger *zap.Logger) *ServiceImpl {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ServiceImpl{logger: logger, repo: repo, publisher: publisher}
}

func (s *ServiceImpl) Notify(ctx context.Context, userID uuid.UUID, title, message string) bool {
	// the triggering action has already happened; a client disconnect must not drop its notification
	ctx = context.WithoutCancel(ctx)
	l := s.logger.With(zap.String("method", "Notify"), zap.String("userID", userID.String()))

	n, err := s.repo.Create(ctx, userID, title, message)
	if err != nil {
		l.Error("Failed to create notification", zap.Error(err))
		metrics.RecordNotificationFailure(ctx)
		return false
	}

	err = s.publisher.PublishJSON(ctx, events.RoutingKeyNotificationCreated, models.NotificationEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Message:        n.Message,
		CreatedAt:      n.CreatedAt,
	})
	if err != nil {
		l.Warn("Failed to publish notification event", zap.Error(err))
	}
	return true
}

func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, ListLimit)
}

func (s *ServiceImpl) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.WithDetail(models.ErrNotFound, "اعلان یافت نشد")
	}
	return nil
}

// Broadcast notifies every user when req.UserID is "all", otherwise the single
// user it names. Delivery is sequential and not atomic.
func (s *ServiceImpl) Broadcast(ctx context.Context, req models.BroadcastRequest) (*models.BroadcastResult, error) {
	l := s.logger.With(zap.String("method", "Broadcast"), zap.String("target", req.UserID))

	var targets []uuid.UUID
	if req.UserID == models.BroadcastAll {
		ids, err := s.repo.AllUserIDs(ctx)
		if err != nil {
			return nil, err
		}
		targets = ids
	} else {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			return nil, models.WithDetail(models.ErrValidation, "شناسه کاربر نامعتبر است")
		}
		targets = []uuid.UUID{id}
	}

	delivered := 0
	for _, id := range targets {
		if s.Notify(ctx, id, req.Title, req.Message) {
			delivered++
		}
	}

	l.Info("Broadcast finished", zap.Int("targets", len(targets)), zap.Int("delivered", delivered))
	return &models.BroadcastResult{Message: "اعلان ارسال شد", Recipients: delivered}, nil
}
