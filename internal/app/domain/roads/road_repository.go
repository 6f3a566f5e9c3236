package roads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
	database "github.com/FACorreiaa/masir/internal/db"
)

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	Create(ctx context.Context, userID uuid.UUID, req models.CreateRoadRequest) (*models.RoadSubmission, error)
	List(ctx context.Context, status models.SubmissionStatus, page models.PageParams) ([]models.RoadSubmission, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.RoadSubmission, error)
	// Review moves a pending road to next and credits the owner with coins, atomically.
	Review(ctx context.Context, id uuid.UUID, next models.SubmissionStatus, coins int) (*models.RoadSubmission, error)
}

type PostgresRepository struct {
	logger *zap.Logger
	pgpool database.Pool
	psql   sq.StatementBuilderType
}

func NewPostgresRepository(pool database.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pool,
		psql:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var roadColumns = []string{"id", "user_id", "road_name", "road_type", "coordinates", "status", "coin_awarded", "created_at"}

func scanRoad(row pgx.Row) (models.RoadSubmission, error) {
	var r models.RoadSubmission
	var coords []byte
	var status string
	if err := row.Scan(&r.ID, &r.UserID, &r.RoadName, &r.RoadType, &coords, &status, &r.CoinAwarded, &r.CreatedAt); err != nil {
		return r, err
	}
	r.Status = models.SubmissionStatus(status)
	if err := json.Unmarshal(coords, &r.Coordinates); err != nil {
		return r, fmt.Errorf("decode coordinates: %w", err)
	}
	return r, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, req models.CreateRoadRequest) (*models.RoadSubmission, error) {
	coords, err := json.Marshal(req.Coordinates)
	if err != nil {
		return nil, fmt.Errorf("encode coordinates: %w", err)
	}

	query, args, err := r.psql.Insert("roads").
		Columns("user_id", "road_name", "road_type", "coordinates").
		Values(userID, req.RoadName, req.RoadType, string(coords)).
		Suffix("RETURNING " + strings.Join(roadColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	road, err := scanRoad(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		r.logger.Error("Error inserting road", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("insert road: %w", err)
	}
	return &road, nil
}

func (r *PostgresRepository) List(ctx context.Context, status models.SubmissionStatus, page models.PageParams) ([]models.RoadSubmission, int64, error) {
	ctx, span := otel.Tracer("masir/roads").Start(ctx, "PostgresRepository.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("filter.status", string(status)),
		attribute.Int("page", page.Page),
	))
	defer span.End()

	filter := func(b sq.SelectBuilder) sq.SelectBuilder {
		if status != "" {
			b = b.Where(sq.Eq{"status": string(status)})
		}
		return b
	}

	countSQL, countArgs, err := filter(r.psql.Select("COUNT(*)").From("roads")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := r.pgpool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return nil, 0, fmt.Errorf("count roads: %w", err)
	}

	listSQL, listArgs, err := filter(r.psql.Select(roadColumns...).From("roads")).
		OrderBy("created_at DESC").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	items, err := r.query(ctx, listSQL, listArgs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.RoadSubmission, error) {
	query, args, err := r.psql.Select(roadColumns...).From("roads").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}
	return r.query(ctx, query, args...)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.RoadSubmission, error) {
	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Error querying roads", zap.Error(err))
		return nil, fmt.Errorf("query roads: %w", err)
	}
	defer rows.Close()

	out := make([]models.RoadSubmission, 0)
	for rows.Next() {
		road, err := scanRoad(rows)
		if err != nil {
			return nil, fmt.Errorf("scan road: %w", err)
		}
		out = append(out, road)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roads: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Review(ctx context.Context, id uuid.UUID, next models.SubmissionStatus, coins int) (*models.RoadSubmission, error) {
	ctx, span := otel.Tracer("masir/roads").Start(ctx, "PostgresRepository.Review", trace.WithAttributes(
		attribute.String("road.id", id.String()),
		attribute.String("road.next_status", string(next)),
	))
	defer span.End()

	var road models.RoadSubmission
	err := database.WithTx(ctx, r.pgpool, func(tx pgx.Tx) error {
		var err error
		road, err = scanRoad(tx.QueryRow(ctx,
			`SELECT `+strings.Join(roadColumns, ", ")+` FROM roads WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.WithDetail(models.ErrNotFound, "مسیر یافت نشد")
			}
			return fmt.Errorf("lock road: %w", err)
		}
		if !road.Status.CanTransitionTo(next) {
			return models.WithDetail(models.ErrConflict, "این مسیر قبلا بررسی شده است")
		}

		awarded := next == models.StatusApproved
		if _, err := tx.Exec(ctx,
			`UPDATE roads SET status = $2, coin_awarded = $3 WHERE id = $1`,
			id, string(next), awarded); err != nil {
			return fmt.Errorf("update road status: %w", err)
		}
		if awarded && coins > 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE users SET coins = coins + $2 WHERE id = $1`,
				road.UserID, coins); err != nil {
				return fmt.Errorf("award coins: %w", err)
			}
		}
		road.Status = next
		road.CoinAwarded = awarded
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "review failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "road reviewed")
	return &road, nil
}
