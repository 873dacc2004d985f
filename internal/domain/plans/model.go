package plans

import "time"

// Status define the lifecycle state of a plan.
// @Enum active, archived
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Plan is the top-level financial-planning document being tracked.
type Plan struct {
	ID          string
	OwnerUserID string

	Name        string
	Currency    string // ISO 4217 code, e.g. "USD"
	Description string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
