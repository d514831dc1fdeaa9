package service

import (
	"testing"
	"time"

	"referly/config"
	"referly/internal/auth"
	"referly/internal/domain"
	"referly/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "unit-access-secret",
			RefreshSecret: "unit-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "referly",
		},
	}
	return NewAuthService(cfg, repository.NewUserRepository(db))
}

func TestLoginIssuesValidTokenPair(t *testing.T) {
	svc := newAuthFixture(t)
	_, _, _, err := svc.Register("alice@example.com", "alice", "hunter22", domain.RoleSeeker, "Alice")
	require.NoError(t, err)

	u, access, refresh, err := svc.Login("alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := auth.ParseAccessToken(&svc.cfg.JWT, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, domain.RoleSeeker, claims.Role)

	uid, err := auth.ParseRefreshToken(&svc.cfg.JWT, refresh)
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newAuthFixture(t)
	_, _, _, err := svc.Register("alice@example.com", "alice", "hunter22", domain.RoleSeeker, "Alice")
	require.NoError(t, err)

	_, _, _, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	svc := newAuthFixture(t)
	u, _, refresh, err := svc.Register("alice@example.com", "alice", "hunter22", domain.RoleSeeker, "Alice")
	require.NoError(t, err)

	access2, refresh2, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, access2)
	require.NotEmpty(t, refresh2)

	claims, err := auth.ParseAccessToken(&svc.cfg.JWT, access2)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newAuthFixture(t)
	_, access, _, err := svc.Register("alice@example.com", "alice", "hunter22", domain.RoleSeeker, "Alice")
	require.NoError(t, err)

	_, _, err = svc.RefreshToken(access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(t)
	_, _, err := svc.RefreshToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
