package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userhub/internal/model"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")

	token, err := svc.GenerateToken(3, "alice@example.com", model.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").GenerateToken(1, "a@b.com", model.RoleAdmin)
	require.NoError(t, err)

	_, err = NewJWTService("secret-b").VerifyToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	_, err := NewJWTService("test-secret").VerifyToken("not.a.token")
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, hasher.Compare(hash, "password123"))
	assert.False(t, hasher.Compare(hash, "password124"))

	// Salted: same input, different digests.
	other, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}
