package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/genkan-institute/genkan-api/internal/models"
)

// RegistrationRepository handles the registration ledger. Rows are only
// ever appended by AllocateSeat and bulk-transitioned by
// MarkBatchCompleted; there is no delete path.
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// allocateSeatQuery claims one seat from the earliest upcoming batch at
// the requested level. The capacity check and the decrement are one
// conditional UPDATE, so two last-seat races cannot both pass: the
// loser matches zero rows and gets sql.ErrNoRows.
const allocateSeatQuery = `UPDATE batches SET seats_available = seats_available - 1, updated_at = $2
        WHERE id = (
            SELECT id FROM batches
            WHERE level = $1 AND status = 'upcoming' AND seats_available > 0
            ORDER BY start_date ASC, id ASC
            LIMIT 1
        ) AND seats_available > 0
        RETURNING id`

const insertRegistrationQuery = `INSERT INTO registrations (id, batch_id, name, email, whatsapp, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

// AllocateSeat atomically decrements capacity on a qualifying batch and
// appends the registration row in the same transaction. It returns
// sql.ErrNoRows when no batch at the level has seats left.
func (r *RegistrationRepository) AllocateSeat(ctx context.Context, level models.Level, reg *models.Registration) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin allocation: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	var batchID string
	if err := tx.GetContext(ctx, &batchID, allocateSeatQuery, level, now); err != nil {
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return fmt.Errorf("claim seat: %w", err)
	}

	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	reg.BatchID = batchID
	reg.Status = models.RegistrationStatusPending
	reg.CreatedAt = now

	if _, err := tx.ExecContext(ctx, insertRegistrationQuery,
		reg.ID, reg.BatchID, reg.Name, reg.Email, reg.WhatsApp, reg.Status, reg.CreatedAt); err != nil {
		return fmt.Errorf("append registration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit allocation: %w", err)
	}
	return nil
}

// List returns registrations with batch context, filtered and paginated.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.RegistrationDetail, int, error) {
	base := `FROM registrations r LEFT JOIN batches b ON b.id = r.batch_id`
	var conditions []string
	var args []interface{}

	if filter.BatchID != "" {
		conditions = append(conditions, fmt.Sprintf("r.batch_id = $%d", len(args)+1))
		args = append(args, filter.BatchID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT r.id, r.batch_id, r.name, r.email, r.whatsapp, r.status, r.created_at,
        b.title AS batch_title, b.level AS batch_level
        %s ORDER BY r.created_at DESC, r.id ASC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var registrations []models.RegistrationDetail
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}
	return registrations, total, nil
}

// FindByID returns a registration by its ID.
func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*models.Registration, error) {
	const query = `SELECT id, batch_id, name, email, whatsapp, status, created_at FROM registrations WHERE id = $1`
	var reg models.Registration
	if err := r.db.GetContext(ctx, &reg, query, id); err != nil {
		return nil, err
	}
	return &reg, nil
}

// MarkBatchCompleted transitions every registration of a batch to
// completed. Re-running it matches no pending rows, so it is idempotent.
func (r *RegistrationRepository) MarkBatchCompleted(ctx context.Context, batchID string) (int64, error) {
	const query = `UPDATE registrations SET status = $2 WHERE batch_id = $1 AND status <> $2`
	res, err := r.db.ExecContext(ctx, query, batchID, models.RegistrationStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("complete batch registrations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count completed registrations: %w", err)
	}
	return affected, nil
}
