package auth

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/masir/internal/app/models"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the business logic contract.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error)
	// Authenticate resolves an access token to its current user record.
	Authenticate(ctx context.Context, token string) (*models.User, error)
	CreateAdmin(ctx context.Context, email, fullName, password string) (*models.User, error)
}

type AuthServiceImpl struct {
	logger   *zap.Logger
	repo     AuthRepo
	tokens   *TokenManager
	hashCost int
}

func NewAuthService(repo AuthRepo, tokens *TokenManager, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

var errInvalidCredentials = models.WithDetail(models.ErrUnauthenticated, "ایمیل یا رمز عبور اشتباه است")

func (s *AuthServiceImpl) Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResponse, error) {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", req.Email))
	ctx, span := otel.Tracer("masir/auth").Start(ctx, "AuthService.Register", trace.WithAttributes(
		attribute.String("email", req.Email),
	))
	defer span.End()

	hash, err := HashPassword(req.Password, s.hashCost)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, req.Email, req.FullName, hash, models.RoleUser)
	if err != nil {
		l.Warn("Repository registration failed", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository registration failed")
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	resp, err := s.tokenResponse(user)
	if err != nil {
		return nil, err
	}
	l.Info("Registration successful", zap.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return resp, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req models.LoginRequest) (*models.TokenResponse, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", req.Email))

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			l.Warn("Login for unknown email")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("Password comparison failed", zap.String("userID", user.ID.String()))
		return nil, errInvalidCredentials
	}

	l.Info("Login successful", zap.String("userID", user.ID.String()))
	return s.tokenResponse(user)
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.WithDetail(models.ErrUnauthenticated, "کاربر یافت نشد")
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthServiceImpl) CreateAdmin(ctx context.Context, email, fullName, password string) (*models.User, error) {
	hash, err := HashPassword(password, s.hashCost)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.UpsertAdmin(ctx, email, fullName, hash)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Admin account ready", zap.String("userID", user.ID.String()), zap.String("email", email))
	return user, nil
}

func (s *AuthServiceImpl) tokenResponse(user *models.User) (*models.TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.String("userID", user.ID.String()), zap.Error(err))
		return nil, err
	}
	return &models.TokenResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}
