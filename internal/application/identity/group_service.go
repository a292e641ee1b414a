package identity

import (
	"context"
	"time"

	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserGroupService handles membership group management
type UserGroupService struct {
	groupRepo identity.UserGroupRepository
}

// NewUserGroupService creates a new UserGroupService
func NewUserGroupService(groupRepo identity.UserGroupRepository) *UserGroupService {
	return &UserGroupService{groupRepo: groupRepo}
}

// CreateGroup creates a new user group
func (s *UserGroupService) CreateGroup(ctx context.Context, tenantID uuid.UUID, req CreateUserGroupRequest) (*UserGroupResponse, error) {
	group, err := identity.NewUserGroup(tenantID, req.Name, req.CommissionPercentage)
	if err != nil {
		return nil, err
	}
	group.Description = req.Description

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}

	resp := ToUserGroupResponse(group)
	return &resp, nil
}

// GetGroup retrieves a group by ID
func (s *UserGroupService) GetGroup(ctx context.Context, tenantID, id uuid.UUID) (*UserGroupResponse, error) {
	group, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserGroupResponse(group)
	return &resp, nil
}

// UpdateGroup updates a group's details. Changing the commission
// percentage affects future commission generation only; existing
// ledger entries keep the rate they were written with.
func (s *UserGroupService) UpdateGroup(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserGroupRequest) (*UserGroupResponse, error) {
	group, err := s.groupRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		group.Name = *req.Name
		group.UpdatedAt = time.Now()
		group.IncrementVersion()
	}
	if req.Description != nil {
		group.Description = *req.Description
		group.UpdatedAt = time.Now()
	}
	if req.CommissionPercentage != nil {
		if err := group.UpdateCommission(*req.CommissionPercentage); err != nil {
			return nil, err
		}
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}

	resp := ToUserGroupResponse(group)
	return &resp, nil
}

// DeleteGroup removes a group. Memberships go with it; users remain.
func (s *UserGroupService) DeleteGroup(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.groupRepo.DeleteForTenant(ctx, tenantID, id)
}

// ListGroups retrieves groups with pagination and filtering
func (s *UserGroupService) ListGroups(ctx context.Context, tenantID uuid.UUID, filter UserGroupListFilter) ([]UserGroupResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	groups, err := s.groupRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}

	items := make([]UserGroupResponse, 0, len(groups))
	for i := range groups {
		items = append(items, ToUserGroupResponse(&groups[i]))
	}
	return items, nil
}
