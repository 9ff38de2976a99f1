package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newReportRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestReportRepositorySummaries(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	start := time.Now()
	level := "N5"
	title := "N5 Morning"
	rows := sqlmock.NewRows([]string{"batch_id", "batch_found", "level", "title", "start_date",
		"seats_total", "seats_available", "total", "pending", "completed"}).
		AddRow("batch-1", true, level, title, start, 20, 5, 15, 10, 5).
		AddRow("batch-gone", false, nil, nil, nil, 0, 0, 4, 4, 0)
	mock.ExpectQuery(regexp.QuoteMeta("b.id IS NOT NULL AS batch_found")).
		WillReturnRows(rows)

	summaries, err := repo.Summaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	require.True(t, summaries[0].BatchFound)
	require.Equal(t, title, summaries[0].Title)
	require.Equal(t, summaries[0].Total, summaries[0].Pending+summaries[0].Completed)

	require.False(t, summaries[1].BatchFound)
	require.Equal(t, "not found", summaries[1].Level)
	require.Equal(t, "not found", summaries[1].Title)
	require.Zero(t, summaries[1].SeatsTotal)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryRegistrantRows(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{"registration_id", "batch_id", "level", "batch_title",
		"name", "email", "whatsapp", "status", "created_at"}).
		AddRow("reg-1", "batch-1", "N5", "N5 Morning", "Aiko", "aiko@example.com", "+628123", "pending", time.Now()).
		AddRow("reg-2", "batch-gone", nil, nil, "Ken", "ken@example.com", "+628999", "completed", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT r.id AS registration_id, r.batch_id")).
		WillReturnRows(rows)

	result, err := repo.RegistrantRows(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Nil(t, result[1].Level)
	require.NoError(t, mock.ExpectationsWereMet())
}
