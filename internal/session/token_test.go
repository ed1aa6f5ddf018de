package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("unit-secret")

	signed, err := tokens.Sign("session-123", time.Hour)
	require.NoError(t, err)

	id, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "session-123", id)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokenManager("secret-a").Sign("session-123", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Verify(signed)
	assert.Error(t, err)
}

func TestTokenRejectsTampering(t *testing.T) {
	tokens := NewTokenManager("unit-secret")
	signed, err := tokens.Sign("session-123", time.Hour)
	require.NoError(t, err)

	_, err = tokens.Verify(signed + "x")
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	tokens := NewTokenManager("unit-secret")
	signed, err := tokens.Sign("session-123", -time.Minute)
	require.NoError(t, err)

	_, err = tokens.Verify(signed)
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 20 draws from a 900000-value space should not all collide.
	assert.Greater(t, len(seen), 1)
}
