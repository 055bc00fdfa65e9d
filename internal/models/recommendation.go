package models

import "time"

// Recommendation is a persisted reduction action for an organization.
type Recommendation struct {
	ID                 int64     `db:"id"`
	OrganizationID     int64     `db:"organization_id"`
	Title              string    `db:"title"`
	Detail             string    `db:"detail"`
	EstimatedReduction float64   `db:"estimated_reduction"`
	Applied            bool      `db:"applied"`
	CreatedAt          time.Time `db:"created_at"`
}
