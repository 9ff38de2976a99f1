package models

import "time"

// RegistrationStatus represents the processing state of a registration.
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusCompleted RegistrationStatus = "completed"
)

// Registration is one applicant's claim on a seat in a batch. The batch
// reference is weak: deleting a batch leaves its registrations in place.
type Registration struct {
	ID        string             `db:"id" json:"id"`
	BatchID   string             `db:"batch_id" json:"batch_id"`
	Name      string             `db:"name" json:"name"`
	Email     string             `db:"email" json:"email"`
	WhatsApp  string             `db:"whatsapp" json:"whatsapp"`
	Status    RegistrationStatus `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}

// RegistrationDetail extends Registration with batch context for responses.
type RegistrationDetail struct {
	Registration
	BatchTitle *string `db:"batch_title" json:"batch_title,omitempty"`
	BatchLevel *Level  `db:"batch_level" json:"batch_level,omitempty"`
}

// RegistrationFilter defines filter criteria for listing registrations.
type RegistrationFilter struct {
	BatchID  string
	Status   RegistrationStatus
	Page     int
	PageSize int
}
