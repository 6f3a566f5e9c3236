package roads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, userID uuid.UUID, req models.CreateRoadRequest) (*models.RoadSubmission, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoadSubmission), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, status models.SubmissionStatus, page models.PageParams) ([]models.RoadSubmission, int64, error) {
	args := m.Called(ctx, status, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.RoadSubmission), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.RoadSubmission, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoadSubmission), args.Error(1)
}

func (m *MockRepository) Review(ctx context.Context, id uuid.UUID, next models.SubmissionStatus, coins int) (*models.RoadSubmission, error) {
	args := m.Called(ctx, id, next, coins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoadSubmission), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID uuid.UUID, title, message string) bool {
	return m.Called(ctx, userID, title, message).Bool(0)
}

func setupRoadServiceTest() (*ServiceImpl, *MockRepository, *MockNotifier) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	return NewService(repo, notifier, 1, zap.NewNop()), repo, notifier
}

func TestSubmitNotifiesOwner(t *testing.T) {
	s, repo, notifier := setupRoadServiceTest()
	userID := uuid.New()
	req := models.CreateRoadRequest{RoadName: "Valiasr", RoadType: models.RoadTypeMainStreet, Coordinates: [][]float64{{35.7, 51.4}, {35.8, 51.5}}}
	road := &models.RoadSubmission{ID: uuid.New(), UserID: userID, RoadName: "Valiasr", Status: models.StatusPending, CreatedAt: time.Now()}

	repo.On("Create", mock.Anything, userID, req).Return(road, nil).Once()
	notifier.On("Notify", mock.Anything, userID, "مسیر ثبت شد", mock.AnythingOfType("string")).Return(true).Once()

	got, err := s.Submit(context.Background(), userID, req)
	require.NoError(t, err)
	assert.Equal(t, road.ID, got.ID)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestSubmitStoreFailureSkipsNotification(t *testing.T) {
	s, repo, notifier := setupRoadServiceTest()
	repo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	_, err := s.Submit(context.Background(), uuid.New(), models.CreateRoadRequest{})
	require.Error(t, err)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewApproveAwardsConfiguredCoins(t *testing.T) {
	s, repo, notifier := setupRoadServiceTest()
	id, owner := uuid.New(), uuid.New()
	road := &models.RoadSubmission{ID: id, UserID: owner, RoadName: "Valiasr", Status: models.StatusApproved, CoinAwarded: true}

	repo.On("Review", mock.Anything, id, models.StatusApproved, 1).Return(road, nil).Once()
	notifier.On("Notify", mock.Anything, owner, "سکه دریافت شد!",
		"تبریک! مسیر 'Valiasr' شما تایید شد و 1 سکه مسیر به شما اضافه شد.").Return(true).Once()

	got, err := s.Review(context.Background(), id, models.DecisionApprove)
	require.NoError(t, err)
	assert.True(t, got.CoinAwarded)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestReviewRejectAwardsNothing(t *testing.T) {
	s, repo, notifier := setupRoadServiceTest()
	id, owner := uuid.New(), uuid.New()
	road := &models.RoadSubmission{ID: id, UserID: owner, RoadName: "Valiasr", Status: models.StatusRejected}

	repo.On("Review", mock.Anything, id, models.StatusRejected, 0).Return(road, nil).Once()
	notifier.On("Notify", mock.Anything, owner, "مسیر رد شد",
		"متاسفانه مسیر 'Valiasr' ثبت شده شما تایید نشد.").Return(true).Once()

	_, err := s.Review(context.Background(), id, models.DecisionReject)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestReviewConflictDoesNotNotify(t *testing.T) {
	s, repo, notifier := setupRoadServiceTest()
	id := uuid.New()
	repo.On("Review", mock.Anything, id, models.StatusApproved, 1).
		Return(nil, models.WithDetail(models.ErrConflict, "این مسیر قبلا بررسی شده است")).Once()

	_, err := s.Review(context.Background(), id, models.DecisionApprove)
	assert.ErrorIs(t, err, models.ErrConflict)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListBuildsPage(t *testing.T) {
	s, repo, _ := setupRoadServiceTest()
	page := models.PageParams{Page: 5, PageSize: 20}
	repo.On("List", mock.Anything, models.StatusPending, page).Return([]models.RoadSubmission{}, int64(45), nil).Once()

	res, err := s.List(context.Background(), models.StatusPending, page)
	require.NoError(t, err)
	assert.Equal(t, int64(45), res.Total)
	assert.Equal(t, int64(3), res.TotalPages)
	assert.Empty(t, res.Items)
}

func TestListByUserUsesLimit(t *testing.T) {
	s, repo, _ := setupRoadServiceTest()
	userID := uuid.New()
	repo.On("ListByUser", mock.Anything, userID, UserListLimit).Return([]models.RoadSubmission{{ID: uuid.New()}}, nil).Once()

	items, err := s.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	repo.AssertExpectations(t)
}
