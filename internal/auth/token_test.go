package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/donor-connect/internal/domain"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleDonor)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleDonor, claims.Role)
}

func TestTokenManagerRejectsForgedTokens(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	t.Run("garbage input", func(t *testing.T) {
		_, err := tm.ParseToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewTokenManager("other-secret", 60)
		token, _, err := other.GenerateToken("user-1", domain.RoleDonor)
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := &TokenManager{secret: []byte("test-secret"), ttl: -time.Minute}
		token, _, err := expired.GenerateToken("user-1", domain.RoleDonor)
		require.NoError(t, err)

		_, err = tm.ParseToken(token)
		assert.Error(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)

	assert.NoError(t, ComparePassword(hash, "hunter2hunter2"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}
