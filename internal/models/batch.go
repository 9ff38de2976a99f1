package models

import "time"

// Level enumerates the JLPT levels a batch can be offered at.
type Level string

const (
	LevelN5 Level = "N5"
	LevelN4 Level = "N4"
	LevelN3 Level = "N3"
	LevelN2 Level = "N2"
	LevelN1 Level = "N1"
)

// Valid reports whether the level is one of the known JLPT levels.
func (l Level) Valid() bool {
	switch l {
	case LevelN5, LevelN4, LevelN3, LevelN2, LevelN1:
		return true
	}
	return false
}

// BatchStatus represents the lifecycle state of a batch.
type BatchStatus string

const (
	BatchStatusUpcoming  BatchStatus = "upcoming"
	BatchStatusOngoing   BatchStatus = "ongoing"
	BatchStatusCompleted BatchStatus = "completed"
)

// Batch is one scheduled offering of a class at a given level with finite seats.
type Batch struct {
	ID             string      `db:"id" json:"id"`
	Level          Level       `db:"level" json:"level"`
	Title          string      `db:"title" json:"title"`
	Schedule       string      `db:"schedule" json:"schedule"`
	StartDate      time.Time   `db:"start_date" json:"start_date"`
	Status         BatchStatus `db:"status" json:"status"`
	Price          int64       `db:"price" json:"price"`
	SeatsTotal     int         `db:"seats_total" json:"seats_total"`
	SeatsAvailable int         `db:"seats_available" json:"seats_available"`
	Prerequisite   *Level      `db:"prerequisite" json:"prerequisite,omitempty"`
	ImageID        *string     `db:"image_id" json:"image_id,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// BatchFilter defines filter criteria for listing batches.
type BatchFilter struct {
	Level     Level
	Status    BatchStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
