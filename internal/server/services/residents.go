package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/dbx"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/auth"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/config"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/models"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/admins"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/refreshtokens"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/residents"
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// TokenPair carries a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ResidentService owns resident identity: upsert-by-phone registration,
// session tokens, and the admin reporting login.
type ResidentService struct {
	db                           *sql.DB
	residents                    residents.Repository
	refreshTokens                refreshtokens.Repository
	admins                       admins.Repository
	flats                        *FlatService
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewResidentService(db *sql.DB, rr residents.Repository, tr refreshtokens.Repository,
	ar admins.Repository, fs *FlatService, cfg *config.Config) *ResidentService {
	return &ResidentService{
		db:                           db,
		residents:                    rr,
		refreshTokens:                tr,
		admins:                       ar,
		flats:                        fs,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Authenticate registers a resident, or re-registers an existing phone
// (upsert semantics: email, flat and last_login are refreshed, the id is
// stable). Returns the stored identity and a session token pair.
func (s *ResidentService) Authenticate(ctx context.Context, phone, email, flatCode string) (*models.Resident, *TokenPair, error) {
	if !phonePattern.MatchString(phone) {
		return nil, nil, fmt.Errorf("%w: phone must be exactly 10 digits", common.ErrorValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, nil, fmt.Errorf("%w: malformed email", common.ErrorValidation)
	}

	flat, err := s.flats.ResolveCode(ctx, flatCode)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, fmt.Errorf("%w: unknown flat %s", common.ErrorValidation, flatCode)
		}
		return nil, nil, err
	}

	resident, err := s.residents.Upsert(ctx, phone, email, flat.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error upserting resident: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, resident.ID, auth.RoleResident)
	if err != nil {
		return nil, nil, err
	}

	return resident, tokens, nil
}

// GetResident returns a resident by id; vanished identities surface as
// common.ErrorNotFound so a cached session can fall back to logged-out.
func (s *ResidentService) GetResident(ctx context.Context, id string) (*models.Resident, error) {
	resident, err := s.residents.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting resident: %w", err)
	}
	return resident, nil
}

// ResidentOfRecord returns the active resident tied to a flat.
func (s *ResidentService) ResidentOfRecord(ctx context.Context, flatID string) (*models.Resident, error) {
	resident, err := s.residents.GetByFlat(ctx, flatID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting resident of record: %w", err)
	}
	return resident, nil
}

// RefreshToken rotates a refresh token: the old one is deleted and a new
// pair is issued in the same transaction.
func (s *ResidentService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.refreshTokens.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.refreshTokens.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		tokenPair, err = s.generateTokenPair(ctx, token.ResidentID, auth.RoleResident)
		return err
	})
	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// Logout invalidates all refresh tokens of a resident.
func (s *ResidentService) Logout(ctx context.Context, residentID string) error {
	if err := s.refreshTokens.DeleteForResident(ctx, residentID); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	return nil
}

// ParseAccessToken validates a bearer token and returns its claims.
func (s *ResidentService) ParseAccessToken(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, s.jwtSecret)
}

// EnsureAdmin creates the bootstrap admin account on an empty admins
// table. Idempotent across restarts.
func (s *ResidentService) EnsureAdmin(ctx context.Context, username, password string) error {
	n, err := s.admins.Count(ctx)
	if err != nil {
		return fmt.Errorf("error counting admins: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	if _, err := s.admins.Create(ctx, username, string(hash)); err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}

// AdminLogin checks the reporting-view credentials and issues an access
// token. Unknown usernames and wrong passwords are indistinguishable.
func (s *ResidentService) AdminLogin(ctx context.Context, username, password string) (string, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUnauthorized
		}
		return "", fmt.Errorf("error getting admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(admin.ID, auth.RoleAdmin, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating admin token: %w", err)
	}
	return token, nil
}

func (s *ResidentService) generateTokenPair(ctx context.Context, residentID string, role auth.Role) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(residentID, role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refreshToken := &refreshtokens.Token{
		Token:      uuid.NewString(),
		ResidentID: residentID,
		Expires:    time.Now().Add(s.refreshTokenValidityDuration),
	}

	if err := s.refreshTokens.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("error storing refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken.Token}, nil
}
