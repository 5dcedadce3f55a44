package utils_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlucero/shop-api/internal/utils"
)

const secret = "token-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 42, "ana@example.com", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := utils.ParseAccess(secret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.WithinDuration(t, tok.Exp, claims.ExpiresAt, time.Second)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tok, err := utils.NewRefreshToken(secret, 42, 7)
	require.NoError(t, err)

	claims, err := utils.ParseRefresh(secret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.WithinDuration(t, tok.Exp, claims.ExpiresAt, time.Second)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	// The jti claim keeps two tokens minted in the same second distinct.
	a, err := utils.NewRefreshToken(secret, 42, 7)
	require.NoError(t, err)
	b, err := utils.NewRefreshToken(secret, 42, 7)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 42, "ana@example.com", 15)
	require.NoError(t, err)

	// Flip one character of the payload segment.
	parts := strings.Split(tok.Token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = utils.ParseAccess(secret, tampered)
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 42, "ana@example.com", 15)
	require.NoError(t, err)
	_, err = utils.ParseAccess("another-secret", tok.Token)
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 42, "ana@example.com", -1)
	require.NoError(t, err)
	_, err = utils.ParseAccess(secret, tok.Token)
	assert.ErrorIs(t, err, utils.ErrTokenExpired)
}

func TestParseRejectsCrossTypeTokens(t *testing.T) {
	access, err := utils.NewAccessToken(secret, 42, "ana@example.com", 15)
	require.NoError(t, err)
	refresh, err := utils.NewRefreshToken(secret, 42, 7)
	require.NoError(t, err)

	_, err = utils.ParseRefresh(secret, access.Token)
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)

	_, err = utils.ParseAccess(secret, refresh.Token)
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "abc", "a.b.c"} {
		_, err := utils.ParseAccess(secret, raw)
		assert.ErrorIs(t, err, utils.ErrTokenInvalid, "input %q", raw)
	}
}

func TestHashRefreshRawIsStableAndOpaque(t *testing.T) {
	h1 := utils.HashRefreshRaw("some-token-string")
	h2 := utils.HashRefreshRaw("some-token-string")
	h3 := utils.HashRefreshRaw("another-token-string")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64) // hex-encoded SHA-256
	assert.NotContains(t, h1, "some-token")
}
