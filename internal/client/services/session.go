// Package services holds the station's application services: session
// handling, the offline submission queue, guard intake, the realtime
// change dispatcher and the view projections.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/gateway"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/repositories/session"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/logging"
)

// Session store keys. Fixed names; cleared together on logout.
const (
	keyResident = "resident"
	keyRole     = "role"
	keyTokens   = "tokens"
	keyLanguage = "language"
)

// Role tags stored alongside the cached identity.
const (
	RoleResident = "resident"
	RoleAdmin    = "admin"
)

// SessionService owns the station's authenticated identity: login against
// the gateway, durable caching, restart restore with re-validation, and
// logout.
type SessionService struct {
	gw     gateway.Gateway
	store  session.Repository
	logger logging.Logger
}

func NewSessionService(gw gateway.Gateway, store session.Repository, logger logging.Logger) *SessionService {
	return &SessionService{gw: gw, store: store, logger: logger.With("module", "session")}
}

// Login authenticates a resident and persists identity, role and tokens
// so the session survives a restart.
func (s *SessionService) Login(ctx context.Context, phone, email, flatCode string) (*api.Resident, error) {
	resident, err := s.gw.AuthenticateResident(ctx, phone, email, flatCode)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, resident, RoleResident); err != nil {
		return nil, err
	}
	return resident, nil
}

// AdminLogin opens the reporting view. The admin session holds only an
// access token and is not cached across restarts.
func (s *SessionService) AdminLogin(ctx context.Context, username, password string) error {
	if err := s.gw.AdminLogin(ctx, username, password); err != nil {
		return err
	}
	return s.store.Set(ctx, keyRole, []byte(RoleAdmin))
}

func (s *SessionService) persist(ctx context.Context, resident *api.Resident, role string) error {
	raw, err := json.Marshal(resident)
	if err != nil {
		return fmt.Errorf("failed to marshal resident: %w", err)
	}
	tokens, err := json.Marshal(s.gw.Tokens())
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	if err := s.store.Set(ctx, keyResident, raw); err != nil {
		return err
	}
	if err := s.store.Set(ctx, keyRole, []byte(role)); err != nil {
		return err
	}
	return s.store.Set(ctx, keyTokens, tokens)
}

// Restore loads a cached resident session after a restart and re-validates
// it against the store. A vanished identity clears the cache and restores
// to logged-out; an unreachable gateway keeps the cached identity so the
// station can work offline.
func (s *SessionService) Restore(ctx context.Context) (*api.Resident, error) {
	raw, err := s.store.Get(ctx, keyResident)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var cached api.Resident
	if err := json.Unmarshal(raw, &cached); err != nil {
		// Unreadable cache is treated as logged-out, not fatal.
		s.logger.Warn(ctx, "discarding unreadable cached session", "error", err)
		return nil, s.clear(ctx)
	}

	if rawTokens, err := s.store.Get(ctx, keyTokens); err == nil && rawTokens != nil {
		var tokens api.TokenPair
		if err := json.Unmarshal(rawTokens, &tokens); err == nil {
			s.gw.SetTokens(tokens)
		}
	}

	current, err := s.gw.GetResident(ctx, cached.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Info(ctx, "cached resident no longer valid, logging out", "resident_id", cached.ID)
			return nil, s.clear(ctx)
		}
		if errors.Is(err, common.ErrorTransport) {
			s.logger.Warn(ctx, "gateway unreachable, using cached identity")
			return &cached, nil
		}
		return nil, err
	}
	return current, nil
}

// Logout revokes the session remotely (best effort) and clears the local
// cache. The offline queue is station-scoped and deliberately survives.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.gw.Logout(ctx); err != nil && !errors.Is(err, common.ErrorTransport) {
		s.logger.Warn(ctx, "remote logout failed", "error", err)
	}
	return s.clear(ctx)
}

func (s *SessionService) clear(ctx context.Context) error {
	for _, key := range []string{keyResident, keyRole, keyTokens, keyLanguage} {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	s.gw.SetTokens(api.TokenPair{})
	return nil
}

// Language returns the stored UI language preference, defaulting to "en".
func (s *SessionService) Language(ctx context.Context) string {
	raw, err := s.store.Get(ctx, keyLanguage)
	if err != nil || raw == nil {
		return "en"
	}
	return string(raw)
}

func (s *SessionService) SetLanguage(ctx context.Context, lang string) error {
	return s.store.Set(ctx, keyLanguage, []byte(lang))
}
