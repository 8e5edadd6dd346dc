package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Application statuses move forward through the pipeline; "draft" is the
// initial state of a tracked posting.
const (
	StatusDraft        = "draft"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusRejected     = "rejected"
)

// Application is one tracked job application.
type Application struct {
	ID          string
	Title       string
	Company     string
	URL         string
	Source      string
	Status      string
	Notes       string
	Salary      string
	Location    string
	CoverLetter string
	Questions   string // JSON array stored as text
	AppliedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FieldValue is one remembered form value, keyed by the field identifier it
// was typed into.
type FieldValue struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Stats summarizes the tracked applications.
type Stats struct {
	Total     int
	ByStatus  map[string]int
	ThisWeek  int
	ThisMonth int
	Companies []string
}
