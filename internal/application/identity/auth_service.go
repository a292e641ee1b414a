package identity

import (
	"context"
	"errors"

	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any authentication failure.
// Bad username and bad password are deliberately indistinguishable.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles login and token refresh
type AuthService struct {
	userRepo identity.UserRepository
	jwt      *auth.JWTService
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo identity.UserRepository, jwt *auth.JWTService, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		logger:   logger.Named("auth"),
	}
}

// Login authenticates a user by username and password and issues a
// token pair. Inactive accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, tenantID uuid.UUID, req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, tenantID, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Info("login rejected",
			zap.String("tenant_id", tenantID.String()),
			zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	tokens, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("login succeeded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()))

	return &LoginResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The
// user is reloaded so that a deactivated account stops refreshing and
// a staff change takes effect.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	return s.jwt.RefreshTokenPair(req.RefreshToken, user.Username, user.IsStaff)
}

// HashPassword computes the bcrypt hash stored on user records
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
