package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/admins"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/refreshtokens"
)

// fakeFlatRepo serves a fixed directory keyed by code.
type fakeFlatRepo struct {
	flats []models.Flat
}

func newFakeFlatRepo(codes ...string) *fakeFlatRepo {
	repo := &fakeFlatRepo{}
	for _, code := range codes {
		wing, number, err := models.ParseFlatCode(code)
		if err != nil {
			panic(err)
		}
		repo.flats = append(repo.flats, models.Flat{ID: uuid.NewString(), Wing: wing, Number: number})
	}
	return repo
}

func (r *fakeFlatRepo) List(context.Context) ([]models.Flat, error) {
	return r.flats, nil
}

func (r *fakeFlatRepo) GetByCode(_ context.Context, wing string, number int) (*models.Flat, error) {
	for i := range r.flats {
		if r.flats[i].Wing == wing && r.flats[i].Number == number {
			return &r.flats[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeFlatRepo) GetByID(_ context.Context, id string) (*models.Flat, error) {
	for i := range r.flats {
		if r.flats[i].ID == id {
			return &r.flats[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

// fakeResidentRepo keys residents by phone, like the real unique index.
type fakeResidentRepo struct {
	mu      sync.Mutex
	byPhone map[string]*models.Resident
}

func newFakeResidentRepo() *fakeResidentRepo {
	return &fakeResidentRepo{byPhone: make(map[string]*models.Resident)}
}

func (r *fakeResidentRepo) Upsert(_ context.Context, phone, email, flatID string) (*models.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byPhone[phone]; ok {
		existing.Email = email
		existing.FlatID = flatID
		existing.LastLogin = time.Now()
		out := *existing
		return &out, nil
	}
	resident := &models.Resident{
		ID:        uuid.NewString(),
		Phone:     phone,
		Email:     email,
		FlatID:    flatID,
		LastLogin: time.Now(),
		Active:    true,
		CreatedAt: time.Now(),
	}
	r.byPhone[phone] = resident
	out := *resident
	return &out, nil
}

func (r *fakeResidentRepo) GetByID(_ context.Context, id string) (*models.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, resident := range r.byPhone {
		if resident.ID == id {
			return resident, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeResidentRepo) GetByFlat(_ context.Context, flatID string) (*models.Resident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Resident
	for _, resident := range r.byPhone {
		if resident.FlatID != flatID || !resident.Active {
			continue
		}
		if latest == nil || resident.LastLogin.After(latest.LastLogin) {
			latest = resident
		}
	}
	if latest == nil {
		return nil, common.ErrorNotFound
	}
	return latest, nil
}

// fakeRequestRepo mirrors the conditional-update semantics of the postgres
// implementation.
type fakeRequestRepo struct {
	mu   sync.Mutex
	rows map[string]*models.VisitorRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{rows: make(map[string]*models.VisitorRequest)}
}

func (r *fakeRequestRepo) Create(_ context.Context, req *models.VisitorRequest) (*models.VisitorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *req
	stored.Status = models.StatusPending
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.rows[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*models.VisitorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *row
	return &out, nil
}

func (r *fakeRequestRepo) list(match func(*models.VisitorRequest) bool, newestFirst bool, limit int) []models.VisitorRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.VisitorRequest
	for _, row := range r.rows {
		if match(row) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *fakeRequestRepo) ListPending(context.Context) ([]models.VisitorRequest, error) {
	return r.list(func(row *models.VisitorRequest) bool {
		return row.Status == models.StatusPending
	}, false, 0), nil
}

func (r *fakeRequestRepo) ListPendingForFlat(_ context.Context, flatID string) ([]models.VisitorRequest, error) {
	return r.list(func(row *models.VisitorRequest) bool {
		return row.Status == models.StatusPending && row.FlatID == flatID
	}, false, 0), nil
}

func (r *fakeRequestRepo) ListHistoryForFlat(_ context.Context, flatID string, limit int) ([]models.VisitorRequest, error) {
	return r.list(func(row *models.VisitorRequest) bool {
		return row.Status != models.StatusPending && row.FlatID == flatID
	}, true, limit), nil
}

func (r *fakeRequestRepo) ListAll(_ context.Context, filter models.RequestFilter, limit int) ([]models.VisitorRequest, error) {
	return r.list(func(row *models.VisitorRequest) bool {
		if filter.Wing != "" && !sameWing(row, filter.Wing) {
			return false
		}
		if filter.Date != nil && !sameDay(row.CreatedAt, *filter.Date) {
			return false
		}
		return true
	}, true, limit), nil
}

// sameWing is a stand-in for the join on flats; the fake encodes the wing
// in the flat id prefix set up by the tests.
func sameWing(row *models.VisitorRequest, wing string) bool {
	return len(row.FlatID) > 0 && row.FlatID[:1] == wing
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (r *fakeRequestRepo) SetStatus(_ context.Context, id string, status models.RequestStatus, approverID string) (*models.VisitorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if row.Status != models.StatusPending {
		return nil, common.ErrInvalidTransition
	}
	now := time.Now()
	row.Status = status
	row.ApprovedBy = &approverID
	if status == models.StatusApproved {
		row.ApprovedAt = &now
	} else {
		row.DeniedAt = &now
	}
	out := *row
	return &out, nil
}

func (r *fakeRequestRepo) MarkEntry(_ context.Context, id string) (*models.VisitorRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if row.Status != models.StatusApproved {
		return nil, common.ErrInvalidTransition
	}
	now := time.Now()
	row.Status = models.StatusCompleted
	row.EntryTime = &now
	out := *row
	return &out, nil
}

func (r *fakeRequestRepo) CountsForDay(_ context.Context, day time.Time) (*models.DayStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &models.DayStats{}
	for _, row := range r.rows {
		if !sameDay(row.CreatedAt, day) {
			continue
		}
		stats.TodayVisitors++
		switch row.Status {
		case models.StatusPending:
			stats.PendingApprovals++
		case models.StatusApproved, models.StatusCompleted:
			stats.ApprovedToday++
		case models.StatusDenied:
			stats.DeniedToday++
		}
	}
	return stats, nil
}

func (r *fakeRequestRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, row := range r.rows {
		if row.CreatedAt.Before(cutoff) {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// fakeTokenRepo stores refresh tokens in a map.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*refreshtokens.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*refreshtokens.Token)}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *refreshtokens.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *token
	r.tokens[token.Token] = &stored
	return nil
}

func (r *fakeTokenRepo) Find(_ context.Context, token string) (*refreshtokens.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *stored
	return &out, nil
}

func (r *fakeTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
	return nil
}

func (r *fakeTokenRepo) DeleteForResident(_ context.Context, residentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, stored := range r.tokens {
		if stored.ResidentID == residentID {
			delete(r.tokens, key)
		}
	}
	return nil
}

// fakeAdminRepo stores admin accounts in a map.
type fakeAdminRepo struct {
	mu     sync.Mutex
	byName map[string]*admins.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{byName: make(map[string]*admins.Admin)}
}

func (r *fakeAdminRepo) GetByUsername(_ context.Context, username string) (*admins.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *admin
	return &out, nil
}

func (r *fakeAdminRepo) Create(_ context.Context, username, passwordHash string) (*admins.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin := &admins.Admin{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash}
	r.byName[username] = admin
	out := *admin
	return &out, nil
}

func (r *fakeAdminRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName), nil
}

// capturePublisher records every change event handed to it.
type capturePublisher struct {
	mu       sync.Mutex
	inserted []api.VisitorRequest
	updated  []api.VisitorRequest
}

func (p *capturePublisher) RequestInserted(_ context.Context, r api.VisitorRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inserted = append(p.inserted, r)
}

func (p *capturePublisher) RequestUpdated(_ context.Context, r api.VisitorRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, r)
}
