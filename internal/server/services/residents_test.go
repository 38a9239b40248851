package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/auth"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/config"
	"github.com/anshthakare16/sai-sillicon-valley/internal/server/repositories/refreshtokens"
)

type identityFixture struct {
	flats     *fakeFlatRepo
	residents *fakeResidentRepo
	tokens    *fakeTokenRepo
	admins    *fakeAdminRepo
	service   *ResidentService
}

func newIdentityFixture(t *testing.T) *identityFixture {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &identityFixture{
		flats:     newFakeFlatRepo("B203", "A101"),
		residents: newFakeResidentRepo(),
		tokens:    newFakeTokenRepo(),
		admins:    newFakeAdminRepo(),
	}
	cfg := &config.Config{
		SecretKey:                    "test-secret",
		AccessTokenValidityDuration:  time.Minute,
		RefreshTokenValidityDuration: time.Hour,
	}
	f.service = NewResidentService(db, f.residents, f.tokens, f.admins, NewFlatService(f.flats), cfg)
	return f
}

func TestAuthenticateIssuesSession(t *testing.T) {
	f := newIdentityFixture(t)

	resident, pair, err := f.service.Authenticate(context.Background(), "9876543210", "priya@example.com", "b203")
	require.NoError(t, err)

	assert.Equal(t, "9876543210", resident.Phone)
	assert.True(t, resident.Active)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := f.service.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resident.ID, claims.SubjectID)
	assert.Equal(t, auth.RoleResident, claims.Role)
}

func TestAuthenticateUpsertsByPhone(t *testing.T) {
	f := newIdentityFixture(t)

	first, _, err := f.service.Authenticate(context.Background(), "9876543210", "old@example.com", "B203")
	require.NoError(t, err)

	second, _, err := f.service.Authenticate(context.Background(), "9876543210", "new@example.com", "A101")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "the phone keeps a stable identity")
	assert.Equal(t, "new@example.com", second.Email)
	assert.NotEqual(t, first.FlatID, second.FlatID)
}

func TestAuthenticateValidation(t *testing.T) {
	f := newIdentityFixture(t)

	tests := []struct {
		name     string
		phone    string
		email    string
		flatCode string
	}{
		{"short phone", "98765", "a@example.com", "B203"},
		{"letters in phone", "987654321x", "a@example.com", "B203"},
		{"malformed email", "9876543210", "not-an-email", "B203"},
		{"malformed flat code", "9876543210", "a@example.com", "203B"},
		{"unknown flat", "9876543210", "a@example.com", "C404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.service.Authenticate(context.Background(), tt.phone, tt.email, tt.flatCode)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	f := newIdentityFixture(t)

	_, pair, err := f.service.Authenticate(context.Background(), "9876543210", "a@example.com", "B203")
	require.NoError(t, err)

	next, err := f.service.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// The consumed token is gone.
	_, err = f.service.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestRefreshTokenExpired(t *testing.T) {
	f := newIdentityFixture(t)

	err := f.tokens.Create(context.Background(), &refreshtokens.Token{
		Token:      "stale",
		ResidentID: "r1",
		Expires:    time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = f.service.RefreshToken(context.Background(), "stale")
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestLogoutInvalidatesRefreshTokens(t *testing.T) {
	f := newIdentityFixture(t)

	resident, pair, err := f.service.Authenticate(context.Background(), "9876543210", "a@example.com", "B203")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), resident.ID))

	_, err = f.service.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestEnsureAdminBootstrapsOnce(t *testing.T) {
	f := newIdentityFixture(t)

	require.NoError(t, f.service.EnsureAdmin(context.Background(), "admin", "letmein"))
	stored, err := f.admins.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)

	// A second call with different credentials does not overwrite.
	require.NoError(t, f.service.EnsureAdmin(context.Background(), "other", "changed"))
	n, err := f.admins.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	again, err := f.admins.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, stored.PasswordHash, again.PasswordHash)
}

func TestAdminLogin(t *testing.T) {
	f := newIdentityFixture(t)
	require.NoError(t, f.service.EnsureAdmin(context.Background(), "admin", "letmein"))

	token, err := f.service.AdminLogin(context.Background(), "admin", "letmein")
	require.NoError(t, err)

	claims, err := f.service.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	_, err = f.service.AdminLogin(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = f.service.AdminLogin(context.Background(), "ghost", "letmein")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
