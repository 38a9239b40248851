package flats

import (
	"context"

	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
)

// Repository reads the flat directory. The directory is seeded by a
// migration and never written by the application.
type Repository interface {
	// List returns all flats ordered by wing and number.
	List(ctx context.Context) ([]models.Flat, error)

	// GetByCode resolves a human-entered code like "B203".
	GetByCode(ctx context.Context, wing string, number int) (*models.Flat, error)

	// GetByID returns a flat by its identifier.
	GetByID(ctx context.Context, id string) (*models.Flat, error)
}
