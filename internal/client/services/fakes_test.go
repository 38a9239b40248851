package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE queued_submissions (
  seq        INTEGER PRIMARY KEY AUTOINCREMENT,
  payload    TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE session (key TEXT PRIMARY KEY, value BLOB);
`)
	require.NoError(t, err)
	return db
}

// fakeGateway is an in-memory gateway.Gateway. err, when set, is returned
// by every remote call.
type fakeGateway struct {
	mu sync.Mutex

	err       error
	flats     map[string]api.Flat
	residents map[string]api.Resident
	created   []api.VisitorRequest
	tokens    api.TokenPair

	failCreates int // fail this many CreateRequest calls, then succeed
	loggedOut   bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		flats: map[string]api.Flat{
			"B203": {ID: "flat-b203", Wing: "B", Number: 203, Code: "B203"},
			"A101": {ID: "flat-a101", Wing: "A", Number: 101, Code: "A101"},
		},
		residents: make(map[string]api.Resident),
	}
}

func (g *fakeGateway) Ping(context.Context) error { return g.err }

func (g *fakeGateway) ListFlats(context.Context) ([]api.Flat, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := make([]api.Flat, 0, len(g.flats))
	for _, f := range g.flats {
		out = append(out, f)
	}
	return out, nil
}

func (g *fakeGateway) GetFlat(_ context.Context, code string) (*api.Flat, error) {
	if g.err != nil {
		return nil, g.err
	}
	flat, ok := g.flats[code]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &flat, nil
}

func (g *fakeGateway) AuthenticateResident(_ context.Context, phone, email, flatCode string) (*api.Resident, error) {
	if g.err != nil {
		return nil, g.err
	}
	flat, ok := g.flats[flatCode]
	if !ok {
		return nil, common.ErrorValidation
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	resident := api.Resident{
		ID:        "res-" + phone,
		Phone:     phone,
		Email:     email,
		FlatID:    flat.ID,
		LastLogin: time.Now(),
		Active:    true,
	}
	g.residents[resident.ID] = resident
	g.tokens = api.TokenPair{AccessToken: "acc-" + phone, RefreshToken: "ref-" + phone}
	return &resident, nil
}

func (g *fakeGateway) GetResident(_ context.Context, id string) (*api.Resident, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	resident, ok := g.residents[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &resident, nil
}

func (g *fakeGateway) Logout(context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loggedOut = true
	g.tokens = api.TokenPair{}
	return g.err
}

func (g *fakeGateway) CreateRequest(_ context.Context, payload api.CreateRequestPayload) (*api.VisitorRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	if g.failCreates > 0 {
		g.failCreates--
		return nil, common.ErrorTransport
	}
	created := api.VisitorRequest{
		ID:          fmt.Sprintf("req-%d", len(g.created)+1),
		VisitorName: payload.VisitorName,
		Purpose:     payload.Purpose,
		PhotoURL:    payload.PhotoURL,
		GuardID:     payload.GuardID,
		Status:      "pending",
		CreatedAt:   time.Now(),
	}
	if flat, ok := g.flats[payload.FlatCode]; ok {
		created.FlatID = flat.ID
	}
	g.created = append(g.created, created)
	return &created, nil
}

func (g *fakeGateway) ListPending(context.Context) ([]api.VisitorRequest, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]api.VisitorRequest(nil), g.created...), nil
}

func (g *fakeGateway) ListPendingForFlat(context.Context, string) ([]api.VisitorRequest, error) {
	return nil, g.err
}

func (g *fakeGateway) ListHistoryForFlat(context.Context, string) ([]api.VisitorRequest, error) {
	return nil, g.err
}

func (g *fakeGateway) UpdateStatus(context.Context, string, string) (*api.VisitorRequest, error) {
	return nil, g.err
}

func (g *fakeGateway) AllowEntry(context.Context, string) (*api.VisitorRequest, error) {
	return nil, g.err
}

func (g *fakeGateway) AdminLogin(_ context.Context, username, password string) error {
	if g.err != nil {
		return g.err
	}
	if username != "admin" || password != "letmein" {
		return common.ErrorUnauthorized
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens = api.TokenPair{AccessToken: "admin-token"}
	return nil
}

func (g *fakeGateway) ListAllRequests(context.Context, string, *time.Time) ([]api.VisitorRequest, error) {
	return nil, g.err
}

func (g *fakeGateway) Stats(context.Context, *time.Time) (*api.Stats, error) {
	return nil, g.err
}

func (g *fakeGateway) ExportRequests(context.Context, string, *time.Time) ([]byte, error) {
	return nil, g.err
}

func (g *fakeGateway) PresignPhoto(context.Context) (*api.PresignResponse, error) {
	return nil, common.ErrorTransport
}

func (g *fakeGateway) Tokens() api.TokenPair {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.tokens
}

func (g *fakeGateway) SetTokens(pair api.TokenPair) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens = pair
}
