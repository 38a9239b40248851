package models

import "time"

// Resident is a person with persistent standing tied to one flat. A phone
// number maps to at most one resident identity; re-registration with the
// same phone updates email, flat and last_login instead of creating a new
// row.
type Resident struct {
	ID        string
	Phone     string
	Email     string
	FlatID    string
	LastLogin time.Time
	Active    bool
	CreatedAt time.Time
}
