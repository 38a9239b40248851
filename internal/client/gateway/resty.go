package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
)

const requestTimeout = 10 * time.Second

// RestGateway talks to the server's REST surface. It keeps the session
// token pair and transparently retries a 401 response once after a
// refresh-token exchange.
type RestGateway struct {
	client *resty.Client

	mu     sync.RWMutex
	tokens api.TokenPair
}

func NewRestGateway(baseURL string) *RestGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RestGateway{client: client}
}

func (g *RestGateway) Tokens() api.TokenPair {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tokens
}

func (g *RestGateway) SetTokens(pair api.TokenPair) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tokens = pair
}

func (g *RestGateway) accessToken() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tokens.AccessToken
}

// mapStatus converts an HTTP status to the error taxonomy. A nil return
// means success.
func mapStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	var body api.ErrorResponse
	detail := resp.Status()
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Error != "" {
		detail = body.Error
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", common.ErrorValidation, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrorNotFound, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrInvalidTransition, detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", common.ErrorUnauthorized, detail)
	default:
		return fmt.Errorf("%w: %s", common.ErrorInternal, detail)
	}
}

// execute runs one request, refreshing the access token and retrying once
// when the server answers 401 and a refresh token is held. Transport-level
// failures surface as common.ErrorTransport.
func (g *RestGateway) execute(ctx context.Context, build func(r *resty.Request) (*resty.Response, error)) error {
	resp, err := build(g.client.R().SetContext(ctx).SetAuthToken(g.accessToken()))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorTransport, err)
	}

	if resp.StatusCode() == http.StatusUnauthorized && g.Tokens().RefreshToken != "" {
		if err := g.refresh(ctx); err != nil {
			return err
		}
		resp, err = build(g.client.R().SetContext(ctx).SetAuthToken(g.accessToken()))
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorTransport, err)
		}
	}

	return mapStatus(resp)
}

func (g *RestGateway) refresh(ctx context.Context) error {
	var pair api.TokenPair
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(api.RefreshRequest{RefreshToken: g.Tokens().RefreshToken}).
		SetResult(&pair).
		Post("/api/auth/refresh")
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorTransport, err)
	}
	if !resp.IsSuccess() {
		// The refresh token itself was rejected; the session is over.
		g.SetTokens(api.TokenPair{})
		return fmt.Errorf("%w: session expired", common.ErrorUnauthorized)
	}
	g.SetTokens(pair)
	return nil
}

func (g *RestGateway) Ping(ctx context.Context) error {
	resp, err := g.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorTransport, err)
	}
	return mapStatus(resp)
}

func (g *RestGateway) ListFlats(ctx context.Context) ([]api.Flat, error) {
	var flats []api.Flat
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&flats).Get("/api/flats")
	})
	if err != nil {
		return nil, err
	}
	return flats, nil
}

func (g *RestGateway) GetFlat(ctx context.Context, code string) (*api.Flat, error) {
	var flat api.Flat
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&flat).Get("/api/flats/" + code)
	})
	if err != nil {
		return nil, err
	}
	return &flat, nil
}

func (g *RestGateway) AuthenticateResident(ctx context.Context, phone, email, flatCode string) (*api.Resident, error) {
	var result api.AuthenticateResponse
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(api.AuthenticateRequest{Phone: phone, Email: email, FlatCode: flatCode}).
			SetResult(&result).
			Post("/api/auth/resident")
	})
	if err != nil {
		return nil, err
	}
	g.SetTokens(result.Tokens)
	return &result.Resident, nil
}

func (g *RestGateway) GetResident(ctx context.Context, id string) (*api.Resident, error) {
	var resident api.Resident
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&resident).Get("/api/residents/" + id)
	})
	if err != nil {
		return nil, err
	}
	return &resident, nil
}

func (g *RestGateway) Logout(ctx context.Context) error {
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.Post("/api/auth/logout")
	})
	g.SetTokens(api.TokenPair{})
	return err
}

func (g *RestGateway) CreateRequest(ctx context.Context, payload api.CreateRequestPayload) (*api.VisitorRequest, error) {
	var created api.VisitorRequest
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(payload).SetResult(&created).Post("/api/requests")
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *RestGateway) ListPending(ctx context.Context) ([]api.VisitorRequest, error) {
	var requests []api.VisitorRequest
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&requests).Get("/api/requests/pending")
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (g *RestGateway) ListPendingForFlat(ctx context.Context, flatID string) ([]api.VisitorRequest, error) {
	var requests []api.VisitorRequest
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&requests).Get("/api/flats/" + flatID + "/requests/pending")
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (g *RestGateway) ListHistoryForFlat(ctx context.Context, flatID string) ([]api.VisitorRequest, error) {
	var requests []api.VisitorRequest
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&requests).Get("/api/flats/" + flatID + "/requests/history")
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (g *RestGateway) UpdateStatus(ctx context.Context, id, status string) (*api.VisitorRequest, error) {
	var updated api.VisitorRequest
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(api.UpdateStatusRequest{Status: status}).
			SetResult(&updated).
			Patch("/api/requests/" + id + "/status")
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *RestGateway) AllowEntry(ctx context.Context, id string) (*api.VisitorRequest, error) {
	var updated api.VisitorRequest
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&updated).Post("/api/requests/" + id + "/entry")
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *RestGateway) AdminLogin(ctx context.Context, username, password string) error {
	var result struct {
		AccessToken string `json:"access_token"`
	}
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.
			SetBody(api.AdminLoginRequest{Username: username, Password: password}).
			SetResult(&result).
			Post("/api/auth/admin")
	})
	if err != nil {
		return err
	}
	// The admin session has no refresh token; it expires with the access token.
	g.SetTokens(api.TokenPair{AccessToken: result.AccessToken})
	return nil
}

func dateParams(wing string, date *time.Time) map[string]string {
	params := map[string]string{}
	if wing != "" {
		params["wing"] = wing
	}
	if date != nil {
		params["date"] = date.Format("2006-01-02")
	}
	return params
}

func (g *RestGateway) ListAllRequests(ctx context.Context, wing string, date *time.Time) ([]api.VisitorRequest, error) {
	var requests []api.VisitorRequest
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParams(dateParams(wing, date)).SetResult(&requests).Get("/api/requests")
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (g *RestGateway) Stats(ctx context.Context, date *time.Time) (*api.Stats, error) {
	var stats api.Stats
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParams(dateParams("", date)).SetResult(&stats).Get("/api/stats")
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (g *RestGateway) ExportRequests(ctx context.Context, wing string, date *time.Time) ([]byte, error) {
	var body []byte
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		resp, err := r.SetQueryParams(dateParams(wing, date)).Get("/api/reports/requests.xlsx")
		if err == nil {
			body = resp.Body()
		}
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (g *RestGateway) PresignPhoto(ctx context.Context) (*api.PresignResponse, error) {
	var result api.PresignResponse
	err := g.execute(ctx, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&result).Post("/api/photos/presign")
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
