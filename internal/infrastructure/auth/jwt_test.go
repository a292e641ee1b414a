package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distributor/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-bytes-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "distributor-test",
	})
}

func TestJWTService_GenerateTokenPair(t *testing.T) {
	svc := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: "alice",
		IsStaff:  true,
	})
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsStaff)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestJWTService_ValidateAccessToken_Errors(t *testing.T) {
	svc := newTestService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token rejected as access", func(t *testing.T) {
		pair, err := svc.GenerateTokenPair(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
			Username: "bob",
		})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "a-different-secret-also-32-bytes-long!",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "distributor-test",
		})
		pair, err := other.GenerateTokenPair(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
		})
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		short := NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-at-least-32-bytes-long",
			AccessTokenExpiration:  -time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "distributor-test",
		})
		pair, err := short.GenerateTokenPair(GenerateTokenInput{
			TenantID: uuid.New(),
			UserID:   uuid.New(),
		})
		require.NoError(t, err)

		_, err = short.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	svc := newTestService()
	tenantID := uuid.New()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: "carol",
		IsStaff:  false,
	})
	require.NoError(t, err)

	// promotion to staff takes effect on refresh
	newPair, err := svc.RefreshTokenPair(pair.RefreshToken, "carol", true)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.True(t, claims.IsStaff)

	_, err = svc.RefreshTokenPair(pair.AccessToken, "carol", true)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
