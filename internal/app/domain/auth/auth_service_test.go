package auth

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
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/masir/internal/app/models"
)

// MockAuthRepo is a mock implementation of the AuthRepo interface
type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, email, fullName, passwordHash string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, email, fullName, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) UpsertAdmin(ctx context.Context, email, fullName, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, email, fullName, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func setupAuthServiceTest() (*AuthServiceImpl, *MockAuthRepo) {
	mockRepo := new(MockAuthRepo)
	service := NewAuthService(mockRepo, NewTokenManager("test-secret", 72*time.Hour), zap.NewNop())
	service.hashCost = bcrypt.MinCost
	return service, mockRepo
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		created := &models.User{ID: uuid.New(), Email: "a@example.com", FullName: "Ali", Role: models.RoleUser}
		mockRepo.On("CreateUser", mock.Anything, "a@example.com", "Ali", mock.MatchedBy(func(hash string) bool {
			return CheckPassword(hash, "secret1")
		}), models.RoleUser).Return(created, nil).Once()

		resp, err := service.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "secret1", FullName: "Ali"})
		require.NoError(t, err)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, created, resp.User)

		id, err := service.tokens.Parse(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, created.ID, id)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("CreateUser", mock.Anything, "a@example.com", "Ali", mock.Anything, models.RoleUser).
			Return(nil, models.WithDetail(models.ErrConflict, "این ایمیل قبلا ثبت شده است")).Once()

		resp, err := service.Register(ctx, models.RegisterRequest{Email: "a@example.com", Password: "secret1", FullName: "Ali"})
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, models.ErrConflict)
		mockRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: string(hash)}

	t.Run("success", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByEmail", mock.Anything, "a@example.com").Return(user, nil).Once()

		resp, err := service.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByEmail", mock.Anything, "a@example.com").Return(user, nil).Once()

		_, err := service.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "wrong"})
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
	})

	t.Run("unknown email", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		mockRepo.On("GetUserByEmail", mock.Anything, "b@example.com").
			Return(nil, models.ErrNotFound).Once()

		_, err := service.Login(ctx, models.LoginRequest{Email: "b@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, models.ErrUnauthenticated)
		assert.NotErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("repository failure is not masked", func(t *testing.T) {
		service, mockRepo := setupAuthServiceTest()
		dbErr := errors.New("connection refused")
		mockRepo.On("GetUserByEmail", mock.Anything, "a@example.com").Return(nil, dbErr).Once()

		_, err := service.Login(ctx, models.LoginRequest{Email: "a@example.com", Password: "secret1"})
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	service, mockRepo := setupAuthServiceTest()
	user := &models.User{ID: uuid.New(), Email: "a@example.com"}

	token, err := service.tokens.Issue(user.ID)
	require.NoError(t, err)

	mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()
	got, err := service.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(nil, models.ErrNotFound).Once()
	_, err = service.Authenticate(ctx, token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated, "a deleted user's token is rejected")

	_, err = service.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_CreateAdmin(t *testing.T) {
	service, mockRepo := setupAuthServiceTest()
	admin := &models.User{ID: uuid.New(), Email: "root@example.com", Role: models.RoleAdmin}
	mockRepo.On("UpsertAdmin", mock.Anything, "root@example.com", "Root", mock.AnythingOfType("string")).
		Return(admin, nil).Once()

	got, err := service.CreateAdmin(context.Background(), "root@example.com", "Root", "secret1")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())
	mockRepo.AssertExpectations(t)
}
