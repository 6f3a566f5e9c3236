package roads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/middleware"
	"github.com/FACorreiaa/masir/internal/app/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Submit(ctx context.Context, userID uuid.UUID, req models.CreateRoadRequest) (*models.RoadSubmission, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoadSubmission), args.Error(1)
}

func (m *MockService) List(ctx context.Context, status models.SubmissionStatus, page models.PageParams) (models.Page[models.RoadSubmission], error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).(models.Page[models.RoadSubmission]), args.Error(1)
}

func (m *MockService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RoadSubmission, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RoadSubmission), args.Error(1)
}

func (m *MockService) Review(ctx context.Context, id uuid.UUID, decision models.ReviewDecision) (*models.RoadSubmission, error) {
	args := m.Called(ctx, id, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoadSubmission), args.Error(1)
}

func setupRoadRouter(user *models.User) (*gin.Engine, *MockService) {
	gin.SetMode(gin.TestMode)
	svc := new(MockService)
	h := NewHandler(svc, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(middleware.UserContextKey), user)
		c.Next()
	})
	r.POST("/api/roads", h.Submit)
	r.GET("/api/roads", h.List)
	r.GET("/api/roads/user", h.ListMine)
	r.PUT("/api/admin/roads/:id/approve", h.Approve)
	r.PUT("/api/admin/roads/:id/reject", h.Reject)
	return r, svc
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitHandler(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}
	r, svc := setupRoadRouter(user)
	req := models.CreateRoadRequest{
		RoadName:    "Valiasr",
		RoadType:    models.RoadTypeMainStreet,
		Coordinates: [][]float64{{35.7, 51.4}, {35.8, 51.5}},
	}
	svc.On("Submit", mock.Anything, user.ID, req).
		Return(&models.RoadSubmission{ID: uuid.New(), UserID: user.ID, Status: models.StatusPending}, nil).Once()

	w := do(r, http.MethodPost, "/api/roads", map[string]any{
		"road_name": " Valiasr ", "road_type": models.RoadTypeMainStreet,
		"coordinates": [][]float64{{35.7, 51.4}, {35.8, 51.5}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	svc.AssertExpectations(t)
}

func TestSubmitHandlerValidation(t *testing.T) {
	r, svc := setupRoadRouter(&models.User{ID: uuid.New()})

	cases := map[string]map[string]any{
		"single point": {"road_name": "Valiasr", "road_type": models.RoadTypeAlley, "coordinates": [][]float64{{35.7, 51.4}}},
		"latitude out of range": {"road_name": "Valiasr", "road_type": models.RoadTypeAlley, "coordinates": [][]float64{{95, 51.4}, {35.8, 51.5}}},
		"unknown type": {"road_name": "Valiasr", "road_type": "track", "coordinates": [][]float64{{35.7, 51.4}, {35.8, 51.5}}},
		"short name": {"road_name": "V", "road_type": models.RoadTypeAlley, "coordinates": [][]float64{{35.7, 51.4}, {35.8, 51.5}}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/roads", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"detail"`)
		})
	}
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestListHandler(t *testing.T) {
	r, svc := setupRoadRouter(&models.User{ID: uuid.New()})
	page := models.PageParams{Page: 2, PageSize: 10}
	svc.On("List", mock.Anything, models.StatusApproved, page).
		Return(models.NewPage([]models.RoadSubmission{}, 12, page), nil).Once()

	w := do(r, http.MethodGet, "/api/roads?status=approved&page=2&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 12, body["total"])
	assert.EqualValues(t, 2, body["total_pages"])
	svc.AssertExpectations(t)

	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodGet, "/api/roads?status=archived", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodGet, "/api/roads?page=0", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(r, http.MethodGet, "/api/roads?page_size=101", nil).Code)
}

func TestReviewHandlers(t *testing.T) {
	r, svc := setupRoadRouter(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	id := uuid.New()

	svc.On("Review", mock.Anything, id, models.DecisionApprove).
		Return(&models.RoadSubmission{ID: id, Status: models.StatusApproved}, nil).Once()
	w := do(r, http.MethodPut, "/api/admin/roads/"+id.String()+"/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"مسیر تایید شد و سکه اضافه شد"}`, w.Body.String())

	svc.On("Review", mock.Anything, id, models.DecisionReject).
		Return(nil, models.WithDetail(models.ErrConflict, "این مسیر قبلا بررسی شده است")).Once()
	w = do(r, http.MethodPut, "/api/admin/roads/"+id.String()+"/reject", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPut, "/api/admin/roads/not-a-uuid/approve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"مسیر یافت نشد"}`, w.Body.String())
	svc.AssertExpectations(t)
}
