package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenGenerator_RoundTrip(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour, 24*time.Hour)

	access, refresh, err := tg.GenerateTokens(42, 2)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	userID, role, err := tg.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)
	assert.Equal(t, 2, role)

	assert.NoError(t, tg.ValidateRefreshToken(refresh))
}

func TestTokenGenerator_RejectsWrongType(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour, 24*time.Hour)

	access, refresh, err := tg.GenerateTokens(1, 1)
	require.NoError(t, err)

	// A refresh token is not accepted where an access token is expected
	_, _, err = tg.ValidateAccessToken(refresh)
	assert.Error(t, err)

	// And an access token is not a refresh token
	assert.Error(t, tg.ValidateRefreshToken(access))
}

func TestTokenGenerator_RejectsExpired(t *testing.T) {
	tg := NewTokenGenerator("test-secret", -time.Minute, -time.Minute)

	access, refresh, err := tg.GenerateTokens(1, 1)
	require.NoError(t, err)

	_, _, err = tg.ValidateAccessToken(access)
	assert.Error(t, err)
	assert.Error(t, tg.ValidateRefreshToken(refresh))
}

func TestTokenGenerator_RejectsWrongSecret(t *testing.T) {
	tg := NewTokenGenerator("test-secret", time.Hour, 24*time.Hour)
	other := NewTokenGenerator("other-secret", time.Hour, 24*time.Hour)

	access, _, err := tg.GenerateTokens(1, 1)
	require.NoError(t, err)

	_, _, err = other.ValidateAccessToken(access)
	assert.Error(t, err)
}
