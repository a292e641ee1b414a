package identity

import (
	"context"
	"time"

	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles user account management
type UserService struct {
	userRepo  identity.UserRepository
	groupRepo identity.UserGroupRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, groupRepo identity.UserGroupRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		groupRepo: groupRepo,
	}
}

// CreateUser creates a new user account with optional group memberships
func (s *UserService) CreateUser(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, tenantID, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Email, hash)
	if err != nil {
		return nil, err
	}
	user.DisplayName = req.DisplayName
	user.IsStaff = req.IsStaff

	if len(req.GroupIDs) > 0 {
		groups, err := s.resolveGroups(ctx, tenantID, req.GroupIDs)
		if err != nil {
			return nil, err
		}
		user.Groups = groups
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateUser updates a user's details and group memberships
func (s *UserService) UpdateUser(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.GroupIDs != nil {
		groups, err := s.resolveGroups(ctx, tenantID, *req.GroupIDs)
		if err != nil {
			return nil, err
		}
		user.Groups = groups
	}
	user.UpdatedAt = time.Now()
	user.IncrementVersion()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword changes a user's password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, tenantID, id uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	user.IncrementVersion()

	return s.userRepo.Save(ctx, user)
}

// AssignAgent links a user to the agent who manages their purchases.
// The agent must exist and actually be an agent.
func (s *UserService) AssignAgent(ctx context.Context, tenantID, id uuid.UUID, req AssignAgentRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	agent, err := s.userRepo.FindByIDForTenant(ctx, tenantID, req.AgentID)
	if err != nil {
		return nil, err
	}
	if !agent.IsAgent() {
		return nil, shared.NewDomainError("NOT_AN_AGENT", "Assigned user is not in any agent group")
	}

	if err := user.AssignAgent(agent.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ClearAssignedAgent removes the agent link from a user
func (s *UserService) ClearAssignedAgent(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	user.ClearAssignedAgent()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// DeactivateUser disables a user account
func (s *UserService) DeactivateUser(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListUsers retrieves users with pagination and filtering
func (s *UserService) ListUsers(ctx context.Context, tenantID uuid.UUID, filter UserListFilter) ([]UserListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.IsStaff != nil {
		f.Filters["is_staff"] = *filter.IsStaff
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}
	if filter.AssignedAgentID != nil {
		f.Filters["assigned_agent_id"] = *filter.AssignedAgentID
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]UserListResponse, 0, len(users))
	for i := range users {
		items = append(items, ToUserListResponse(&users[i]))
	}
	return items, total, nil
}

func (s *UserService) resolveGroups(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.UserGroup, error) {
	groups := make([]identity.UserGroup, 0, len(ids))
	for _, gid := range ids {
		group, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, gid)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *group)
	}
	return groups, nil
}
