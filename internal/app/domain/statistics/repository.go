package statistics

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/masir/internal/app/models"
	database "github.com/FACorreiaa/masir/internal/db"
)

var _ Repository = (*PostgresRepository)(nil)

type Repository interface {
	Stats(ctx context.Context) (*models.Stats, error)
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

type statusCounts struct {
	total, pending, approved, rejected int64
}

// Stats runs the user and per-table status aggregates concurrently.
func (r *PostgresRepository) Stats(ctx context.Context) (*models.Stats, error) {
	var (
		stats       models.Stats
		roads, pois statusCounts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		query, args, err := r.psql.Select("COUNT(*)", "COALESCE(SUM(coins), 0)").From("users").ToSql()
		if err != nil {
			return fmt.Errorf("build users aggregate: %w", err)
		}
		if err := r.pgpool.QueryRow(gctx, query, args...).Scan(&stats.Users, &stats.TotalCoins); err != nil {
			return fmt.Errorf("aggregate users: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		roads, err = r.countByStatus(gctx, "roads")
		return err
	})
	g.Go(func() (err error) {
		pois, err = r.countByStatus(gctx, "pois")
		return err
	})
	if err := g.Wait(); err != nil {
		r.logger.Error("Error computing statistics", zap.Error(err))
		return nil, err
	}

	stats.RoadsTotal, stats.RoadsPending, stats.RoadsApproved, stats.RoadsRejected = roads.total, roads.pending, roads.approved, roads.rejected
	stats.POIsTotal, stats.POIsPending, stats.POIsApproved, stats.POIsRejected = pois.total, pois.pending, pois.approved, pois.rejected
	return &stats, nil
}

func (r *PostgresRepository) countByStatus(ctx context.Context, table string) (statusCounts, error) {
	var out statusCounts
	query, args, err := r.psql.Select("status", "COUNT(*)").From(table).GroupBy("status").ToSql()
	if err != nil {
		return out, fmt.Errorf("build %s aggregate: %w", table, err)
	}

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		return out, fmt.Errorf("aggregate %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return out, fmt.Errorf("scan %s aggregate: %w", table, err)
		}
		out.total += n
		switch models.SubmissionStatus(status) {
		case models.StatusPending:
			out.pending = n
		case models.StatusApproved:
			out.approved = n
		case models.StatusRejected:
			out.rejected = n
		}
	}
	return out, rows.Err()
}
