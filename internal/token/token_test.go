package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verivote/internal/roster"
)

var tokenService = NewService("test-signing-key", "verivote-test", time.Hour)

func TestGenerateAndValidate(t *testing.T) {
	signed, err := tokenService.Generate("alice", roster.RoleVoter)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := tokenService.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, roster.RoleVoter, claims.Role)
	assert.Equal(t, "verivote-test", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestValidateGarbage(t *testing.T) {
	_, err := tokenService.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateExpired(t *testing.T) {
	expired := NewService("test-signing-key", "verivote-test", -time.Hour)
	signed, err := expired.Generate("alice", roster.RoleVoter)
	require.NoError(t, err)

	_, err = tokenService.Validate(signed)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestValidateWrongKey(t *testing.T) {
	other := NewService("different-key", "verivote-test", time.Hour)
	signed, err := other.Generate("admin", roster.RoleAdmin)
	require.NoError(t, err)

	_, err = tokenService.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalid)
}
