package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/genkan-institute/genkan-api/internal/models"
)

func newRegistrationRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRegistrationRepositoryAllocateSeat(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE batches SET seats_available = seats_available - 1")).
		WithArgs(models.LevelN5, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("batch-1"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO registrations")).
		WithArgs(sqlmock.AnyArg(), "batch-1", "Aiko", "aiko@example.com", "+628123", models.RegistrationStatusPending, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reg := &models.Registration{Name: "Aiko", Email: "aiko@example.com", WhatsApp: "+628123"}
	err := repo.AllocateSeat(context.Background(), models.LevelN5, reg)
	require.NoError(t, err)
	require.Equal(t, "batch-1", reg.BatchID)
	require.NotEmpty(t, reg.ID)
	require.Equal(t, models.RegistrationStatusPending, reg.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryAllocateSeatNoCapacity(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE batches SET seats_available = seats_available - 1")).
		WithArgs(models.LevelN3, sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	reg := &models.Registration{Name: "Ken", Email: "ken@example.com", WhatsApp: "+628999"}
	err := repo.AllocateSeat(context.Background(), models.LevelN3, reg)
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.Empty(t, reg.BatchID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryList(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	level := models.LevelN4
	title := "N4 Evening"
	rows := sqlmock.NewRows([]string{"id", "batch_id", "name", "email", "whatsapp", "status", "created_at", "batch_title", "batch_level"}).
		AddRow("reg-1", "batch-1", "Aiko", "aiko@example.com", "+628123", models.RegistrationStatusPending, time.Now(), title, level)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT r.id, r.batch_id, r.name, r.email, r.whatsapp, r.status, r.created_at")).
		WithArgs("batch-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM registrations r")).
		WithArgs("batch-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	registrations, total, err := repo.List(context.Background(), models.RegistrationFilter{BatchID: "batch-1"})
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	require.Equal(t, 1, total)
	require.NotNil(t, registrations[0].BatchTitle)
	require.Equal(t, title, *registrations[0].BatchTitle)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	rows := sqlmock.NewRows([]string{"id", "batch_id", "name", "email", "whatsapp", "status", "created_at"}).
		AddRow("reg-1", "batch-1", "Aiko", "aiko@example.com", "+628123", models.RegistrationStatusPending, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM registrations WHERE id = $1")).
		WithArgs("reg-1").
		WillReturnRows(rows)

	reg, err := repo.FindByID(context.Background(), "reg-1")
	require.NoError(t, err)
	require.Equal(t, "batch-1", reg.BatchID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryMarkBatchCompleted(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE registrations SET status = $2 WHERE batch_id = $1 AND status <> $2")).
		WithArgs("batch-1", models.RegistrationStatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.MarkBatchCompleted(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Equal(t, int64(3), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepositoryMarkBatchCompletedIdempotent(t *testing.T) {
	db, mock, cleanup := newRegistrationRepoMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE registrations SET status = $2 WHERE batch_id = $1 AND status <> $2")).
		WithArgs("batch-1", models.RegistrationStatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.MarkBatchCompleted(context.Background(), "batch-1")
	require.NoError(t, err)
	require.Zero(t, affected)
	require.NoError(t, mock.ExpectationsWereMet())
}
