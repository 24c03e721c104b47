package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProvider_Issue(t *testing.T) {
	secret := "test-secret"
	provider := NewJWTProvider(secret)

	token, err := provider.Issue("user-123", "u@example.com", 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Parse and verify claims
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestJWTProvider_Verify(t *testing.T) {
	provider := NewJWTProvider("test-secret")

	token, err := provider.Issue("user-123", "u@example.com", time.Hour)
	require.NoError(t, err)

	userID, err := provider.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTProvider_Verify_WrongSecret(t *testing.T) {
	token, err := NewJWTProvider("secret-a").Issue("user-123", "u@example.com", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTProvider("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestJWTProvider_Verify_Expired(t *testing.T) {
	provider := NewJWTProvider("test-secret")

	token, err := provider.Issue("user-123", "u@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = provider.Verify(token)
	assert.Error(t, err)
}
