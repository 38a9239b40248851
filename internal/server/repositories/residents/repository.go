package residents

import (
	"context"

	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
)

// Repository persists resident identities. A phone number maps to at most
// one resident row network-wide.
type Repository interface {
	// Upsert creates a resident for an unseen phone, or updates email,
	// flat and last_login for an existing one. The stored row is returned
	// either way.
	Upsert(ctx context.Context, phone, email, flatID string) (*models.Resident, error)

	// GetByID returns a resident by id.
	GetByID(ctx context.Context, id string) (*models.Resident, error)

	// GetByFlat returns the active resident of record for a flat.
	GetByFlat(ctx context.Context, flatID string) (*models.Resident, error)
}
