package models

import "time"

// Scope is a greenhouse-gas accounting category.
type Scope string

const (
	Scope1 Scope = "scope1" // direct
	Scope2 Scope = "scope2" // purchased energy
	Scope3 Scope = "scope3" // value chain
)

// Scopes lists the known scopes in their canonical order.
var Scopes = []Scope{Scope1, Scope2, Scope3}

type EmissionRecord struct {
	ID             int64     `db:"id"`
	OrganizationID int64     `db:"organization_id"`
	Date           time.Time `db:"date"` // day precision, UTC midnight
	Activity       string    `db:"activity"`
	Scope          Scope     `db:"scope"`
	Value          float64   `db:"value"` // metric tons CO2e
	CreatedAt      time.Time `db:"created_at"`
}
