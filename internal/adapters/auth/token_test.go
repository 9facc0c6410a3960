package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookinghub/internal/domain"
)

func TestJWTManager_Issue(t *testing.T) {
	secret := "test-secret"
	issuer, _ := NewJWTManager(secret)

	token, err := issuer.Issue("user-123", "u@example.com", domain.RoleFacilitator, 24*time.Hour)
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
	assert.Equal(t, domain.RoleFacilitator, claims.Role)
}

func TestJWTManager_Verify(t *testing.T) {
	issuer, verifier := NewJWTManager("test-secret")

	token, err := issuer.Issue("user-123", "u@example.com", domain.RoleUser, time.Hour)
	require.NoError(t, err)

	userID, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTManager_Verify_wrong_secret(t *testing.T) {
	issuer, _ := NewJWTManager("secret-a")
	_, verifier := NewJWTManager("secret-b")

	token, err := issuer.Issue("user-123", "u@example.com", domain.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_Verify_expired(t *testing.T) {
	issuer, verifier := NewJWTManager("test-secret")

	token, err := issuer.Issue("user-123", "u@example.com", domain.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}
