package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/auth"
	"github.com/distributor/backend/internal/infrastructure/config"
)

func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-at-least-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "backend-test",
	})
}

func newAuthService() (*AuthService, *MockUserRepository, *auth.JWTService) {
	users := new(MockUserRepository)
	jwt := newTestJWTService()
	return NewAuthService(users, jwt, zap.NewNop()), users, jwt
}

func newCredentialedUser(t *testing.T, tenantID uuid.UUID, username, password string) *identity.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	user, err := identity.NewUser(tenantID, username, username+"@example.com", hash)
	require.NoError(t, err)
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	service, users, jwt := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := newCredentialedUser(t, tenantID, "alice", "s3cret-pass")

	users.On("FindByUsername", ctx, tenantID, "alice").Return(user, nil)

	result, err := service.Login(ctx, tenantID, LoginRequest{Username: "alice", Password: "s3cret-pass"})

	require.NoError(t, err)
	require.NotNil(t, result.Tokens)
	assert.Equal(t, "Bearer", result.Tokens.TokenType)
	assert.Equal(t, "alice", result.User.Username)

	claims, err := jwt.ValidateAccessToken(result.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, tenantID.String(), claims.TenantID)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.False(t, claims.IsStaff)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := newCredentialedUser(t, tenantID, "alice", "s3cret-pass")

	users.On("FindByUsername", ctx, tenantID, "alice").Return(user, nil)

	result, err := service.Login(ctx, tenantID, LoginRequest{Username: "alice", Password: "wrong"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestAuthService_Login_UnknownUserIndistinguishable(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()

	users.On("FindByUsername", ctx, tenantID, "ghost").Return(nil, shared.ErrNotFound)

	result, err := service.Login(ctx, tenantID, LoginRequest{Username: "ghost", Password: "whatever"})

	// same error as a wrong password, usernames are not probeable
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, result)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	service, users, _ := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := newCredentialedUser(t, tenantID, "alice", "s3cret-pass")
	user.Deactivate()

	users.On("FindByUsername", ctx, tenantID, "alice").Return(user, nil)

	result, err := service.Login(ctx, tenantID, LoginRequest{Username: "alice", Password: "s3cret-pass"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DISABLED", domainErr.Code)
}

func TestAuthService_Refresh_PicksUpStaffChange(t *testing.T) {
	service, users, jwt := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := newCredentialedUser(t, tenantID, "alice", "s3cret-pass")

	pair, err := jwt.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenantID,
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  false,
	})
	require.NoError(t, err)

	// promoted between login and refresh
	user.IsStaff = true
	users.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)

	refreshed, err := service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})

	require.NoError(t, err)
	claims, err := jwt.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsStaff)
}

func TestAuthService_Refresh_DeactivatedAccountRejected(t *testing.T) {
	service, users, jwt := newAuthService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	user := newCredentialedUser(t, tenantID, "alice", "s3cret-pass")

	pair, err := jwt.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenantID,
		UserID:   user.ID,
		Username: user.Username,
	})
	require.NoError(t, err)

	user.Deactivate()
	users.On("FindByIDForTenant", ctx, tenantID, user.ID).Return(user, nil)

	result, err := service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ACCOUNT_DISABLED", domainErr.Code)
}

func TestAuthService_Refresh_GarbageTokenRejected(t *testing.T) {
	service, _, _ := newAuthService()

	result, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: "not-a-token"})

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.Nil(t, result)
}

func TestAuthService_Refresh_AccessTokenRejected(t *testing.T) {
	service, _, jwt := newAuthService()

	tenantID := newTestTenantID()
	pair, err := jwt.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenantID,
		UserID:   uuid.New(),
		Username: "alice",
	})
	require.NoError(t, err)

	result, err := service.Refresh(context.Background(), RefreshRequest{RefreshToken: pair.AccessToken})

	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.Nil(t, result)
}
