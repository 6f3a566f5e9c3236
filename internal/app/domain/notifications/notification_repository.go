package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
	database "github.com/FACorreiaa/masir/internal/db"
)

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, title, message string) (*models.Notification, error)
	// ListByUser returns the newest notifications of a user, at most limit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	// MarkRead reports whether a notification with that id belongs to userID.
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
	AllUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

type PostgresRepository struct {
	logger *zap.Logger
	pgpool database.Pool
}

func NewPostgresRepository(pool database.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{logger: logger, pgpool: pool}
}

const notificationColumns = `id, user_id, title, message, read, created_at`

func scanNotification(row pgx.Row) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Read, &n.CreatedAt)
	return n, err
}

func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, title, message string) (*models.Notification, error) {
	query := `INSERT INTO notifications (user_id, title, message)
		VALUES ($1, $2, $3)
		RETURNING ` + notificationColumns
	n, err := scanNotification(r.pgpool.QueryRow(ctx, query, userID, title, message))
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &n, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		r.logger.Error("Error listing notifications", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := make([]models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.pgpool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresRepository) AllUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pgpool.Query(ctx, `SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect user ids: %w", err)
	}
	return ids, nil
}
