package common

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSignerRoundTrip(t *testing.T) {
	signer := NewTokenSignerService([]byte("test-secret"), nil)

	token, err := signer.IssueToken("pilot-1", []string{"pireps", "owner"}, time.Hour)
	require.NoError(t, err)

	decoded, err := signer.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "pilot-1", decoded.PilotID)
	assert.Equal(t, []string{"pireps", "owner"}, decoded.Roles)
	assert.NotEmpty(t, decoded.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), decoded.ExpiresAt, 5*time.Second)
}

func TestTokenSignerRejects(t *testing.T) {
	signer := NewTokenSignerService([]byte("test-secret"), nil)
	other := NewTokenSignerService([]byte("other-secret"), nil)

	expired, err := signer.IssueToken("pilot-1", nil, -time.Minute)
	require.NoError(t, err)
	foreign, err := other.IssueToken("pilot-1", nil, time.Hour)
	require.NoError(t, err)
	noSubject, err := signer.IssueToken("", nil, time.Hour)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "pilot-1"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"no subject":   noSubject,
		"no expiry":    noExpiry,
		"garbage":      "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := signer.ValidateToken(context.Background(), token)
			assert.Error(t, err)
		})
	}
}

func TestTokenRevocationWithoutRedis(t *testing.T) {
	signer := NewTokenSignerService([]byte("test-secret"), nil)

	revoked, err := signer.IsTokenRevoked(context.Background(), "some-id")
	require.NoError(t, err)
	assert.False(t, revoked)

	err = signer.RevokeToken(context.Background(), &PilotToken{TokenID: "some-id", ExpiresAt: time.Now().Add(time.Hour)})
	assert.Error(t, err)
}
