package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("user-123", "student")
	req.NoError(err)

	claims, err := m.Verify(token)
	req.NoError(err)
	req.Equal("user-123", claims.Subject)
	req.Equal("student", claims.Role)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	req := require.New(t)
	m := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := m.Generate("user-123", "msme")
	req.NoError(err)

	_, err = other.Verify(token)
	req.Error(err)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	req := require.New(t)
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate("user-123", "student")
	req.NoError(err)

	_, err = m.Verify(token)
	req.Error(err)
}

func TestJWTManager_Expiry(t *testing.T) {
	req := require.New(t)
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("user-123", "student")
	req.NoError(err)

	expiry, err := m.Expiry(token)
	req.NoError(err)
	req.WithinDuration(time.Now().Add(time.Hour), expiry, time.Minute)
}
