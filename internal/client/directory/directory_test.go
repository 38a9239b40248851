package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
)

// stubGateway implements gateway.Gateway; only GetFlat matters here.
type stubGateway struct {
	flats    map[string]api.Flat
	err      error
	getCalls int
}

func (s *stubGateway) GetFlat(_ context.Context, code string) (*api.Flat, error) {
	s.getCalls++
	if s.err != nil {
		return nil, s.err
	}
	flat, ok := s.flats[code]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &flat, nil
}

func (s *stubGateway) Ping(context.Context) error                     { return s.err }
func (s *stubGateway) ListFlats(context.Context) ([]api.Flat, error)  { return nil, s.err }
func (s *stubGateway) Logout(context.Context) error                   { return nil }
func (s *stubGateway) Tokens() api.TokenPair                          { return api.TokenPair{} }
func (s *stubGateway) SetTokens(api.TokenPair)                        {}
func (s *stubGateway) PresignPhoto(context.Context) (*api.PresignResponse, error) {
	return nil, s.err
}

func (s *stubGateway) AuthenticateResident(context.Context, string, string, string) (*api.Resident, error) {
	return nil, s.err
}

func (s *stubGateway) GetResident(context.Context, string) (*api.Resident, error) {
	return nil, s.err
}

func (s *stubGateway) CreateRequest(context.Context, api.CreateRequestPayload) (*api.VisitorRequest, error) {
	return nil, s.err
}

func (s *stubGateway) ListPending(context.Context) ([]api.VisitorRequest, error) {
	return nil, s.err
}

func (s *stubGateway) ListPendingForFlat(context.Context, string) ([]api.VisitorRequest, error) {
	return nil, s.err
}

func (s *stubGateway) ListHistoryForFlat(context.Context, string) ([]api.VisitorRequest, error) {
	return nil, s.err
}

func (s *stubGateway) UpdateStatus(context.Context, string, string) (*api.VisitorRequest, error) {
	return nil, s.err
}

func (s *stubGateway) AllowEntry(context.Context, string) (*api.VisitorRequest, error) {
	return nil, s.err
}

func (s *stubGateway) AdminLogin(context.Context, string, string) error { return s.err }

func (s *stubGateway) ExportRequests(context.Context, string, *time.Time) ([]byte, error) {
	return nil, s.err
}

func (s *stubGateway) ListAllRequests(context.Context, string, *time.Time) ([]api.VisitorRequest, error) {
	return nil, s.err
}

func (s *stubGateway) Stats(context.Context, *time.Time) (*api.Stats, error) {
	return nil, s.err
}

func TestResolve_Online(t *testing.T) {
	gw := &stubGateway{flats: map[string]api.Flat{
		"B203": {ID: "f1", Wing: "B", Number: 203, Code: "B203"},
	}}
	d := New(gw)

	flat, err := d.Resolve(context.Background(), "b203")
	require.NoError(t, err)
	assert.Equal(t, "f1", flat.ID)

	// Second lookup is served from cache.
	_, err = d.Resolve(context.Background(), "B203")
	require.NoError(t, err)
	assert.Equal(t, 1, gw.getCalls)
}

func TestResolve_MalformedCode(t *testing.T) {
	d := New(&stubGateway{})

	for _, code := range []string{"", "B2", "2203", "B20x", "B2033x"} {
		_, err := d.Resolve(context.Background(), code)
		assert.ErrorIs(t, err, common.ErrorValidation, code)
	}
}

func TestResolve_UnknownFlatOnline(t *testing.T) {
	d := New(&stubGateway{flats: map[string]api.Flat{}})

	_, err := d.Resolve(context.Background(), "B999")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestResolve_SyntheticFallbackWhenUnreachable(t *testing.T) {
	d := New(&stubGateway{err: common.ErrorTransport})

	flat, err := d.Resolve(context.Background(), "B203")
	require.NoError(t, err)
	assert.Equal(t, "local-B203", flat.ID)
	assert.Equal(t, "B203", flat.Code)

	// Codes outside the fixed grid stay unknown even offline.
	_, err = d.Resolve(context.Background(), "E101")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = d.Resolve(context.Background(), "B509")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
