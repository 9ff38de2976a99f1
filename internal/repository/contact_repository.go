package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/genkan-institute/genkan-api/internal/models"
)

// ContactRepository handles persistence of contact-form messages.
type ContactRepository struct {
	db *sqlx.DB
}

// NewContactRepository constructs the repository.
func NewContactRepository(db *sqlx.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create persists a new contact message.
func (r *ContactRepository) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO contact_messages (id, name, email, subject, body, notified, created_at)
        VALUES (:id, :name, :email, :subject, :body, :notified, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create contact message: %w", err)
	}
	return nil
}

// MarkNotified records that the notification mail went out.
func (r *ContactRepository) MarkNotified(ctx context.Context, id string) error {
	const query = `UPDATE contact_messages SET notified = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark contact message notified: %w", err)
	}
	return nil
}

// List returns contact messages, newest first.
func (r *ContactRepository) List(ctx context.Context, limit int) ([]models.ContactMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT id, name, email, subject, body, notified, created_at
        FROM contact_messages ORDER BY created_at DESC LIMIT %d`, limit)
	var messages []models.ContactMessage
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}
