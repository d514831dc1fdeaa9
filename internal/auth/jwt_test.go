package auth

import (
	"testing"
	"time"

	"referly/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.JWTConfig {
	return &config.JWTConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
		Issuer:        "referly",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateAccessToken(cfg, 7, "u@example.com", "SEEKER")
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "SEEKER", claims.Role)
}

func TestGenerateTokenPair(t *testing.T) {
	cfg := testConfig()
	access, refresh, err := GenerateTokenPair(cfg, 7, "u@example.com", "SEEKER")
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, access)
	require.NoError(t, err)
	uid, err := ParseRefreshToken(cfg, refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	tok, err := GenerateAccessToken(testConfig(), 7, "u@example.com", "SEEKER")
	require.NoError(t, err)

	other := testConfig()
	other.AccessSecret = "something-else"
	_, err = ParseAccessToken(other, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessExpiry = -time.Minute
	tok, err := GenerateAccessToken(cfg, 7, "u@example.com", "SEEKER")
	require.NoError(t, err)

	_, err = ParseAccessToken(testConfig(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "someone-else"
	tok, err := GenerateAccessToken(cfg, 7, "u@example.com", "SEEKER")
	require.NoError(t, err)

	_, err = ParseAccessToken(testConfig(), tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejectsUnsignedAlg(t *testing.T) {
	cfg := testConfig()
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject: "7",
		Issuer:  cfg.Issuer,
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	cfg := testConfig()
	refresh, err := GenerateRefreshToken(cfg, 7)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	uid, err := ParseRefreshToken(cfg, refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)
}
