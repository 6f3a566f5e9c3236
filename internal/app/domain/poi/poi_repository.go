package poi

import (
	"context"
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
	Create(ctx context.Context, userID uuid.UUID, req models.CreatePOIRequest) (*models.POI, error)
	List(ctx context.Context, filter models.SubmissionFilter, page models.PageParams) ([]models.POI, int64, error)
	// Review moves a pending POI to next under a row lock.
	Review(ctx context.Context, id uuid.UUID, next models.SubmissionStatus) (*models.POI, error)
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

var poiColumns = []string{"id", "user_id", "name", "category", "poi_type", "latitude", "longitude", "status", "created_at"}

func scanPOI(row pgx.Row) (models.POI, error) {
	var p models.POI
	var lat, lng float64
	var status string
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Category, &p.POIType, &lat, &lng, &status, &p.CreatedAt); err != nil {
		return p, err
	}
	p.Location = []float64{lat, lng}
	p.Status = models.SubmissionStatus(status)
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID uuid.UUID, req models.CreatePOIRequest) (*models.POI, error) {
	query, args, err := r.psql.Insert("pois").
		Columns("user_id", "name", "category", "poi_type", "latitude", "longitude").
		Values(userID, req.Name, req.Category, req.POIType, req.Location[0], req.Location[1]).
		Suffix("RETURNING " + strings.Join(poiColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	p, err := scanPOI(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		r.logger.Error("Error inserting POI", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("insert poi: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter models.SubmissionFilter, page models.PageParams) ([]models.POI, int64, error) {
	ctx, span := otel.Tracer("masir/poi").Start(ctx, "PostgresRepository.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("filter.status", string(filter.Status)),
		attribute.String("filter.category", filter.Category),
		attribute.Int("page", page.Page),
	))
	defer span.End()

	where := sq.Eq{}
	if filter.Status != "" {
		where["status"] = string(filter.Status)
	}
	if filter.Category != "" {
		where["category"] = filter.Category
	}
	apply := func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(where) > 0 {
			b = b.Where(where)
		}
		return b
	}

	countSQL, countArgs, err := apply(r.psql.Select("COUNT(*)").From("pois")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int64
	if err := r.pgpool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return nil, 0, fmt.Errorf("count pois: %w", err)
	}

	listSQL, listArgs, err := apply(r.psql.Select(poiColumns...).From("pois")).
		OrderBy("created_at DESC").
		Limit(uint64(page.PageSize)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, 0, fmt.Errorf("query pois: %w", err)
	}
	defer rows.Close()

	items := make([]models.POI, 0, page.PageSize)
	for rows.Next() {
		p, err := scanPOI(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan poi: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate pois: %w", err)
	}
	return items, total, nil
}

func (r *PostgresRepository) Review(ctx context.Context, id uuid.UUID, next models.SubmissionStatus) (*models.POI, error) {
	ctx, span := otel.Tracer("masir/poi").Start(ctx, "PostgresRepository.Review", trace.WithAttributes(
		attribute.String("poi.id", id.String()),
		attribute.String("poi.next_status", string(next)),
	))
	defer span.End()

	var p models.POI
	err := database.WithTx(ctx, r.pgpool, func(tx pgx.Tx) error {
		var err error
		p, err = scanPOI(tx.QueryRow(ctx,
			`SELECT `+strings.Join(poiColumns, ", ")+` FROM pois WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.WithDetail(models.ErrNotFound, "مکان یافت نشد")
			}
			return fmt.Errorf("lock poi: %w", err)
		}
		if !p.Status.CanTransitionTo(next) {
			return models.WithDetail(models.ErrConflict, "این مکان قبلا بررسی شده است")
		}
		if _, err := tx.Exec(ctx, `UPDATE pois SET status = $2 WHERE id = $1`, id, string(next)); err != nil {
			return fmt.Errorf("update poi status: %w", err)
		}
		p.Status = next
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "review failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "poi reviewed")
	return &p, nil
}
