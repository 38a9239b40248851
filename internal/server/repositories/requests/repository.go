package requests

import (
	"context"
	"time"

	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
)

// Repository persists visitor requests and enforces the monotonic status
// transitions at the query level: status-changing updates are conditional
// on the current status, so concurrent actors cannot overwrite a decision
// that already landed.
type Repository interface {
	// Create inserts a new pending request.
	Create(ctx context.Context, req *models.VisitorRequest) (*models.VisitorRequest, error)

	// GetByID returns a request by id.
	GetByID(ctx context.Context, id string) (*models.VisitorRequest, error)

	// ListPending returns all pending requests, oldest first (guard view).
	ListPending(ctx context.Context) ([]models.VisitorRequest, error)

	// ListPendingForFlat returns pending requests for one flat (resident inbox).
	ListPendingForFlat(ctx context.Context, flatID string) ([]models.VisitorRequest, error)

	// ListHistoryForFlat returns the most recent non-pending requests for a
	// flat, newest first, bounded by limit.
	ListHistoryForFlat(ctx context.Context, flatID string, limit int) ([]models.VisitorRequest, error)

	// ListAll returns requests for the admin view, newest first, optionally
	// narrowed by wing and/or creation date, bounded by limit.
	ListAll(ctx context.Context, filter models.RequestFilter, limit int) ([]models.VisitorRequest, error)

	// SetStatus moves a pending request to approved or denied, stamping the
	// matching timestamp and the approver. Returns common.ErrorNotFound when
	// the row is gone and common.ErrInvalidTransition when it has already
	// left pending.
	SetStatus(ctx context.Context, id string, status models.RequestStatus, approverID string) (*models.VisitorRequest, error)

	// MarkEntry moves an approved request to completed, stamping entry_time.
	// Same error contract as SetStatus, with approved as the expected state.
	MarkEntry(ctx context.Context, id string) (*models.VisitorRequest, error)

	// CountsForDay aggregates the admin dashboard counters for one day.
	CountsForDay(ctx context.Context, day time.Time) (*models.DayStats, error)

	// DeleteOlderThan removes requests created before the cutoff, regardless
	// of status, returning the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
