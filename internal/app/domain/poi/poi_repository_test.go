package poi

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/masir/internal/app/models"
)

var poiRowColumns = []string{"id", "user_id", "name", "category", "poi_type", "latitude", "longitude", "status", "created_at"}

func TestPostgresRepository_Create(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()
	repo := NewPostgresRepository(mockPool, zap.NewNop())

	userID, id := uuid.New(), uuid.New()
	req := models.CreatePOIRequest{Name: "Milad Tower", Category: models.CategoryPublic, POIType: "landmark", Location: []float64{35.74, 51.37}}

	mockPool.ExpectQuery(`INSERT INTO pois \(user_id,name,category,poi_type,latitude,longitude\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\) RETURNING`).
		WithArgs(userID, "Milad Tower", models.CategoryPublic, "landmark", 35.74, 51.37).
		WillReturnRows(pgxmock.NewRows(poiRowColumns).
			AddRow(id, userID, "Milad Tower", models.CategoryPublic, "landmark", 35.74, 51.37, "pending", time.Now()))

	p, err := repo.Create(context.Background(), userID, req)
	require.NoError(t, err)
	assert.Equal(t, []float64{35.74, 51.37}, p.Location)
	assert.Equal(t, models.StatusPending, p.Status)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_ListWithFilters(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()
	repo := NewPostgresRepository(mockPool, zap.NewNop())

	filter := models.SubmissionFilter{Status: models.StatusApproved, Category: models.CategoryPublic}
	mockPool.ExpectQuery(`SELECT COUNT\(\*\) FROM pois WHERE category = \$1 AND status = \$2`).
		WithArgs(models.CategoryPublic, "approved").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mockPool.ExpectQuery(`SELECT .+ FROM pois WHERE category = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT 20 OFFSET 0`).
		WithArgs(models.CategoryPublic, "approved").
		WillReturnRows(pgxmock.NewRows(poiRowColumns).
			AddRow(uuid.New(), uuid.New(), "Park", models.CategoryPublic, "", 35.7, 51.4, "approved", time.Now()))

	items, total, err := repo.List(context.Background(), filter, models.DefaultPageParams())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, models.StatusApproved, items[0].Status)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_Review(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()
	repo := NewPostgresRepository(mockPool, zap.NewNop())
	id, owner := uuid.New(), uuid.New()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`SELECT .+ FROM pois WHERE id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(poiRowColumns).
			AddRow(id, owner, "Park", models.CategoryPublic, "", 35.7, 51.4, "pending", time.Now()))
	mockPool.ExpectExec(`UPDATE pois SET status = \$2 WHERE id = \$1`).
		WithArgs(id, "approved").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	p, err := repo.Review(context.Background(), id, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, p.Status)
	assert.Equal(t, owner, p.UserID)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(poiRowColumns).
			AddRow(id, owner, "Park", models.CategoryPublic, "", 35.7, 51.4, "approved", time.Now()))
	mockPool.ExpectRollback()

	_, err = repo.Review(context.Background(), id, models.StatusRejected)
	assert.ErrorIs(t, err, models.ErrConflict)

	missing := uuid.New()
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(`FOR UPDATE`).WithArgs(missing).WillReturnError(pgx.ErrNoRows)
	mockPool.ExpectRollback()

	_, err = repo.Review(context.Background(), missing, models.StatusApproved)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
