package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/requests"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/residents"
)

// ChangePublisher receives a notification after each persisted mutation of
// the request table. Implemented by events.Publisher; nil-safe via NopPublisher.
type ChangePublisher interface {
	RequestInserted(ctx context.Context, record api.VisitorRequest)
	RequestUpdated(ctx context.Context, record api.VisitorRequest)
}

// NopPublisher drops all notifications. Used in tests and when Redis is
// not configured.
type NopPublisher struct{}

func (NopPublisher) RequestInserted(context.Context, api.VisitorRequest) {}
func (NopPublisher) RequestUpdated(context.Context, api.VisitorRequest)  {}

// Submission is a guard intake payload; Submit validates it.
type Submission struct {
	ID            string
	VisitorName   string
	VehicleType   string
	VehicleNumber string
	Purpose       string
	FlatCode      string
	PhotoURL      string
	GuardID       string
}

// RequestService is the visitor request lifecycle engine. All status
// changes go through the conditional updates of the repository, so the
// pending → approved|denied → completed order is enforced even under
// concurrent actors.
type RequestService struct {
	requests  requests.Repository
	residents residents.Repository
	flats     *FlatService
	publisher ChangePublisher
}

func NewRequestService(rr requests.Repository, resr residents.Repository, fs *FlatService, pub ChangePublisher) *RequestService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &RequestService{requests: rr, residents: resr, flats: fs, publisher: pub}
}

// Submit validates and persists a new pending request. The visitor name
// and photo are required; the flat code must resolve; a blank purpose
// becomes "Other"; a missing guard id becomes the single-guard sentinel.
// Replayed offline submissions may carry their own id, which is kept.
func (s *RequestService) Submit(ctx context.Context, sub Submission) (*models.VisitorRequest, error) {
	if strings.TrimSpace(sub.VisitorName) == "" {
		return nil, fmt.Errorf("%w: visitor name is required", common.ErrorValidation)
	}
	if strings.TrimSpace(sub.PhotoURL) == "" {
		return nil, fmt.Errorf("%w: photo is required", common.ErrorValidation)
	}

	flat, err := s.flats.ResolveCode(ctx, sub.FlatCode)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: unknown flat %s", common.ErrorValidation, sub.FlatCode)
		}
		return nil, err
	}

	purpose := strings.TrimSpace(sub.Purpose)
	if purpose == "" {
		purpose = common.PurposeOther
	}

	guardID := sub.GuardID
	if guardID == "" {
		guardID = common.DefaultGuardID
	}

	id := sub.ID
	if id == "" {
		id = uuid.NewString()
	}

	req := &models.VisitorRequest{
		ID:            id,
		VisitorName:   strings.TrimSpace(sub.VisitorName),
		VehicleType:   strings.TrimSpace(sub.VehicleType),
		VehicleNumber: strings.TrimSpace(sub.VehicleNumber),
		Purpose:       purpose,
		FlatID:        flat.ID,
		PhotoURL:      sub.PhotoURL,
		GuardID:       guardID,
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	s.publisher.RequestInserted(ctx, ToWire(created))
	return created, nil
}

// Approve moves a pending request to approved. Only the resident of
// record for the request's flat may act; anyone else is unauthorized.
func (s *RequestService) Approve(ctx context.Context, id, actorResidentID string) (*models.VisitorRequest, error) {
	return s.decide(ctx, id, actorResidentID, models.StatusApproved)
}

// Deny moves a pending request to denied, under the same guard condition
// as Approve.
func (s *RequestService) Deny(ctx context.Context, id, actorResidentID string) (*models.VisitorRequest, error) {
	return s.decide(ctx, id, actorResidentID, models.StatusDenied)
}

func (s *RequestService) decide(ctx context.Context, id, actorResidentID string, status models.RequestStatus) (*models.VisitorRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading request: %w", err)
	}

	actor, err := s.residents.GetByID(ctx, actorResidentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading actor: %w", err)
	}

	if actor.FlatID != req.FlatID {
		return nil, fmt.Errorf("%w: request belongs to another flat", common.ErrorUnauthorized)
	}

	// The update is conditional on status='pending'; a concurrent decision
	// that landed between the read above and here surfaces as
	// ErrInvalidTransition, never as an overwrite.
	updated, err := s.requests.SetStatus(ctx, id, status, actorResidentID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating request: %w", err)
	}

	s.publisher.RequestUpdated(ctx, ToWire(updated))
	return updated, nil
}

// AllowEntry completes an approved request, stamping entry_time once. Any
// guard may act; a repeat call is a no-op surfacing ErrInvalidTransition.
func (s *RequestService) AllowEntry(ctx context.Context, id string) (*models.VisitorRequest, error) {
	updated, err := s.requests.MarkEntry(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("error marking entry: %w", err)
	}

	s.publisher.RequestUpdated(ctx, ToWire(updated))
	return updated, nil
}

// ListPending backs the guard view: all pending requests across flats.
func (s *RequestService) ListPending(ctx context.Context) ([]models.VisitorRequest, error) {
	result, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing pending requests: %w", err)
	}
	return result, nil
}

// ListPendingForFlat backs the resident approval inbox.
func (s *RequestService) ListPendingForFlat(ctx context.Context, flatID string) ([]models.VisitorRequest, error) {
	result, err := s.requests.ListPendingForFlat(ctx, flatID)
	if err != nil {
		return nil, fmt.Errorf("error listing pending requests: %w", err)
	}
	return result, nil
}

// ListHistoryForFlat backs the resident history list: the most recent
// non-pending requests, bounded.
func (s *RequestService) ListHistoryForFlat(ctx context.Context, flatID string) ([]models.VisitorRequest, error) {
	result, err := s.requests.ListHistoryForFlat(ctx, flatID, common.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing history: %w", err)
	}
	return result, nil
}

// ListAll backs the admin records view. Search (any filter set) allows a
// larger bound than the default listing.
func (s *RequestService) ListAll(ctx context.Context, filter models.RequestFilter) ([]models.VisitorRequest, error) {
	limit := common.AdminListLimit
	if filter.Wing != "" || filter.Date != nil {
		limit = common.AdminSearchLimit
	}

	result, err := s.requests.ListAll(ctx, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing requests: %w", err)
	}
	return result, nil
}

// Stats aggregates the admin dashboard counters for one day.
func (s *RequestService) Stats(ctx context.Context, day time.Time) (*models.DayStats, error) {
	stats, err := s.requests.CountsForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("error aggregating stats: %w", err)
	}
	return stats, nil
}

// ToWire converts a stored request to its wire form.
func ToWire(r *models.VisitorRequest) api.VisitorRequest {
	return api.VisitorRequest{
		ID:            r.ID,
		VisitorName:   r.VisitorName,
		VehicleType:   r.VehicleType,
		VehicleNumber: r.VehicleNumber,
		Purpose:       r.Purpose,
		FlatID:        r.FlatID,
		PhotoURL:      r.PhotoURL,
		GuardID:       r.GuardID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		ApprovedAt:    r.ApprovedAt,
		DeniedAt:      r.DeniedAt,
		EntryTime:     r.EntryTime,
		ApprovedBy:    r.ApprovedBy,
	}
}
