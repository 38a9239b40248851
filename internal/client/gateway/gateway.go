// Package gateway is the station's data-access client. The interface
// mirrors the server's HTTP surface; the core components depend on the
// interface so tests can substitute a fake and so the transport could be
// swapped without touching them.
package gateway

import (
	"context"
	"time"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
)

// Gateway is the remote operation surface consumed by the station core.
// Every call can fail with one of the internal/common sentinels:
// ErrorValidation, ErrorNotFound, ErrInvalidTransition, ErrorUnauthorized
// or ErrorTransport (gateway unreachable).
type Gateway interface {
	// Ping probes server reachability; it backs the online-status watcher.
	Ping(ctx context.Context) error

	ListFlats(ctx context.Context) ([]api.Flat, error)
	GetFlat(ctx context.Context, code string) (*api.Flat, error)

	// AuthenticateResident registers or re-registers a resident (upsert by
	// phone) and stores the issued token pair on the gateway.
	AuthenticateResident(ctx context.Context, phone, email, flatCode string) (*api.Resident, error)
	GetResident(ctx context.Context, id string) (*api.Resident, error)
	Logout(ctx context.Context) error

	CreateRequest(ctx context.Context, payload api.CreateRequestPayload) (*api.VisitorRequest, error)
	ListPending(ctx context.Context) ([]api.VisitorRequest, error)
	ListPendingForFlat(ctx context.Context, flatID string) ([]api.VisitorRequest, error)
	ListHistoryForFlat(ctx context.Context, flatID string) ([]api.VisitorRequest, error)
	UpdateStatus(ctx context.Context, id, status string) (*api.VisitorRequest, error)
	AllowEntry(ctx context.Context, id string) (*api.VisitorRequest, error)

	AdminLogin(ctx context.Context, username, password string) error
	ListAllRequests(ctx context.Context, wing string, date *time.Time) ([]api.VisitorRequest, error)
	Stats(ctx context.Context, date *time.Time) (*api.Stats, error)

	// ExportRequests downloads the filtered request log as an xlsx workbook.
	ExportRequests(ctx context.Context, wing string, date *time.Time) ([]byte, error)

	PresignPhoto(ctx context.Context) (*api.PresignResponse, error)

	// Tokens returns the current token pair so a session store can persist
	// it; SetTokens restores a persisted pair after a restart.
	Tokens() api.TokenPair
	SetTokens(pair api.TokenPair)
}
