package models

import "time"

// BatchSummary aggregates a batch's capacity info with registration counts.
// BatchFound is false when the batch was deleted after registrations were
// taken; the capacity fields are then zero and Level/Title carry sentinels.
type BatchSummary struct {
	BatchID        string     `json:"batch_id"`
	BatchFound     bool       `json:"batch_found"`
	Level          string     `json:"level"`
	Title          string     `json:"title"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	SeatsTotal     int        `json:"seats_total"`
	SeatsAvailable int        `json:"seats_available"`
	Total          int        `json:"total"`
	Pending        int        `json:"pending"`
	Completed      int        `json:"completed"`
}

// RegistrantRow is one flattened registration row for tabular export.
type RegistrantRow struct {
	RegistrationID string    `db:"registration_id"`
	BatchID        string    `db:"batch_id"`
	Level          *string   `db:"level"`
	BatchTitle     *string   `db:"batch_title"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	WhatsApp       string    `db:"whatsapp"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
