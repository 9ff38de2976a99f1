package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/genkan-institute/genkan-api/internal/models"
)

// ReportRepository derives aggregate views from the registration ledger.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type batchSummaryRow struct {
	BatchID        string     `db:"batch_id"`
	BatchFound     bool       `db:"batch_found"`
	Level          *string    `db:"level"`
	Title          *string    `db:"title"`
	StartDate      *time.Time `db:"start_date"`
	SeatsTotal     int        `db:"seats_total"`
	SeatsAvailable int        `db:"seats_available"`
	Total          int        `db:"total"`
	Pending        int        `db:"pending"`
	Completed      int        `db:"completed"`
}

const summariesQuery = `SELECT r.batch_id,
        b.id IS NOT NULL AS batch_found,
        b.level, b.title, b.start_date,
        COALESCE(b.seats_total, 0) AS seats_total,
        COALESCE(b.seats_available, 0) AS seats_available,
        COUNT(*) AS total,
        COUNT(*) FILTER (WHERE r.status = 'pending') AS pending,
        COUNT(*) FILTER (WHERE r.status = 'completed') AS completed
        FROM registrations r
        LEFT JOIN batches b ON b.id = r.batch_id
        GROUP BY r.batch_id, b.id, b.level, b.title, b.start_date, b.seats_total, b.seats_available
        ORDER BY r.batch_id ASC`

// Summaries groups registrations by batch reference and joins catalog
// capacity. Batches deleted after taking registrations come back with
// batch_found = false and zeroed capacity.
func (r *ReportRepository) Summaries(ctx context.Context) ([]models.BatchSummary, error) {
	var rows []batchSummaryRow
	if err := r.db.SelectContext(ctx, &rows, summariesQuery); err != nil {
		return nil, fmt.Errorf("aggregate registrations: %w", err)
	}

	summaries := make([]models.BatchSummary, 0, len(rows))
	for _, row := range rows {
		summary := models.BatchSummary{
			BatchID:        row.BatchID,
			BatchFound:     row.BatchFound,
			Level:          "not found",
			Title:          "not found",
			StartDate:      row.StartDate,
			SeatsTotal:     row.SeatsTotal,
			SeatsAvailable: row.SeatsAvailable,
			Total:          row.Total,
			Pending:        row.Pending,
			Completed:      row.Completed,
		}
		if row.BatchFound {
			if row.Level != nil {
				summary.Level = *row.Level
			}
			if row.Title != nil {
				summary.Title = *row.Title
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

const registrantRowsQuery = `SELECT r.id AS registration_id, r.batch_id,
        b.level, b.title AS batch_title,
        r.name, r.email, r.whatsapp, r.status, r.created_at
        FROM registrations r
        LEFT JOIN batches b ON b.id = r.batch_id
        ORDER BY r.batch_id ASC, r.created_at ASC, r.id ASC`

// RegistrantRows returns one flattened row per registration for export.
func (r *ReportRepository) RegistrantRows(ctx context.Context) ([]models.RegistrantRow, error) {
	var rows []models.RegistrantRow
	if err := r.db.SelectContext(ctx, &rows, registrantRowsQuery); err != nil {
		return nil, fmt.Errorf("list registrant rows: %w", err)
	}
	return rows, nil
}
