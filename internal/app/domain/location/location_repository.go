package location

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
	database "github.com/FACorreiaa/masir/internal/db"
)

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, req models.CreatePersonalLocationRequest) (*models.PersonalLocation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.PersonalLocation, error)
}

type PostgresRepository struct {
	logger *zap.Logger
	pgpool database.Pool
}

func NewPostgresRepository(pool database.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{logger: logger, pgpool: pool}
}

// Create stores a personal location for userID
func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, req models.CreatePersonalLocationRequest) (*models.PersonalLocation, error) {
	query := `
		INSERT INTO personal_locations (user_id, name, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, latitude, longitude, created_at
	`
	var loc models.PersonalLocation
	var lat, lng float64
	err := r.pgpool.QueryRow(ctx, query, userID, req.Name, req.Location[0], req.Location[1]).
		Scan(&loc.ID, &loc.UserID, &loc.Name, &lat, &lng, &loc.CreatedAt)
	if err != nil {
		r.logger.Error("Error inserting personal location", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("insert personal location: %w", err)
	}
	loc.Location = []float64{lat, lng}
	return &loc, nil
}

// ListByUser returns the newest locations owned by userID
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.PersonalLocation, error) {
	query := `
		SELECT id, user_id, name, latitude, longitude, created_at
		FROM personal_locations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("Error querying personal locations", zap.Error(err))
		return nil, fmt.Errorf("query personal locations: %w", err)
	}
	defer rows.Close()

	out := make([]models.PersonalLocation, 0)
	for rows.Next() {
		var loc models.PersonalLocation
		var lat, lng float64
		if err := rows.Scan(&loc.ID, &loc.UserID, &loc.Name, &lat, &lng, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan personal location: %w", err)
		}
		loc.Location = []float64{lat, lng}
		out = append(out, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate personal locations: %w", err)
	}
	return out, nil
}
