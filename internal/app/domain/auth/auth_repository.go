package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
	database "github.com/FACorreiaa/masir/internal/db"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	// CreateUser stores a user with an already hashed password. Duplicate emails yield ErrConflict.
	CreateUser(ctx context.Context, email, fullName, passwordHash string, role models.Role) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpsertAdmin creates an admin account or promotes an existing one and resets its password.
	UpsertAdmin(ctx context.Context, email, fullName, passwordHash string) (*models.User, error)
}

type PostgresAuthRepo struct {
	logger *zap.Logger
	pgpool database.Pool
}

func NewPostgresAuthRepo(pool database.Pool, logger *zap.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		pgpool: pool,
	}
}

const userColumns = `id, email, full_name, password_hash, coins, role, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.Coins, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, email, fullName, passwordHash string, role models.Role) (*models.User, error) {
	ctx, span := otel.Tracer("masir/auth").Start(ctx, "PostgresAuthRepo.CreateUser", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", "INSERT INTO users ..."),
	))
	defer span.End()

	query := `INSERT INTO users (email, full_name, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, email, fullName, passwordHash, string(role)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database error")
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.WithDetail(models.ErrConflict, "این ایمیل قبلا ثبت شده است")
		}
		r.logger.Error("Error inserting user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("database error registering user: %w", err)
	}

	span.SetStatus(codes.Ok, "User created")
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
		}
		r.logger.Error("Error fetching user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with ID %s not found: %w", id, models.ErrNotFound)
		}
		r.logger.Error("Error fetching user by ID", zap.Error(err), zap.String("userID", id.String()))
		return nil, fmt.Errorf("database error fetching user by ID: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) UpsertAdmin(ctx context.Context, email, fullName, passwordHash string) (*models.User, error) {
	query := `INSERT INTO users (email, full_name, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO UPDATE
		SET role = 'admin', password_hash = EXCLUDED.password_hash
		RETURNING ` + userColumns
	user, err := scanUser(r.pgpool.QueryRow(ctx, query, email, fullName, passwordHash))
	if err != nil {
		r.logger.Error("Error upserting admin", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("database error upserting admin: %w", err)
	}
	return user, nil
}
