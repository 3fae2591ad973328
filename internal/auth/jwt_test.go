package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tok, exp, err := m.GenerateAccessToken(Identity{UserID: 1, Email: "alice.johnson@standupbot.dev", Role: "Lead", TeamID: 1})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.VerifyAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "Lead", claims.Role)
	assert.Equal(t, "1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("test-secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, _, err := m.GenerateAccessToken(Identity{UserID: 2, Role: "Member"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyAccessToken(tok)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_RejectsForeignSecret(t *testing.T) {
	tok, _, err := NewManager("one", time.Hour).GenerateAccessToken(Identity{UserID: 2})
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).VerifyAccessToken(tok)
	require.Error(t, err)
}
