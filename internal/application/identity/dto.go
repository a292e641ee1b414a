package identity

import (
	"time"

	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===== Auth DTOs =====

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
	Password string `json:"password" binding:"required,min=1"`
}

// RefreshRequest represents a token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse carries the issued tokens and the authenticated user
type LoginResponse struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// ===== User DTOs =====

// CreateUserRequest represents a request to create a user
type CreateUserRequest struct {
	Username    string      `json:"username" binding:"required,min=1,max=100"`
	Password    string      `json:"password" binding:"required,min=8,max=128"`
	Email       string      `json:"email" binding:"omitempty,email,max=200"`
	DisplayName string      `json:"display_name" binding:"max=200"`
	IsStaff     bool        `json:"is_staff"`
	GroupIDs    []uuid.UUID `json:"group_ids"`
}

// UpdateUserRequest represents a request to update a user
type UpdateUserRequest struct {
	Email       *string      `json:"email" binding:"omitempty,email,max=200"`
	DisplayName *string      `json:"display_name" binding:"omitempty,max=200"`
	IsStaff     *bool        `json:"is_staff"`
	IsActive    *bool        `json:"is_active"`
	GroupIDs    *[]uuid.UUID `json:"group_ids"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// AssignAgentRequest links a user to the agent managing their purchases
type AssignAgentRequest struct {
	AgentID uuid.UUID `json:"agent_id" binding:"required"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID              uuid.UUID           `json:"id"`
	Username        string              `json:"username"`
	Email           string              `json:"email"`
	DisplayName     string              `json:"display_name"`
	IsStaff         bool                `json:"is_staff"`
	IsActive        bool                `json:"is_active"`
	IsAgent         bool                `json:"is_agent"`
	CommissionRate  decimal.Decimal     `json:"commission_rate"`
	AssignedAgentID *uuid.UUID          `json:"assigned_agent_id,omitempty"`
	Groups          []UserGroupResponse `json:"groups"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// UserListResponse represents a user in list responses
type UserListResponse struct {
	ID             uuid.UUID       `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	DisplayName    string          `json:"display_name"`
	IsStaff        bool            `json:"is_staff"`
	IsActive       bool            `json:"is_active"`
	IsAgent        bool            `json:"is_agent"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CreatedAt      time.Time       `json:"created_at"`
}

// UserListFilter represents filters for listing users
type UserListFilter struct {
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search          string     `form:"search"`
	IsStaff         *bool      `form:"is_staff"`
	IsActive        *bool      `form:"is_active"`
	AssignedAgentID *uuid.UUID `form:"assigned_agent_id"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ===== User group DTOs =====

// CreateUserGroupRequest represents a request to create a group
type CreateUserGroupRequest struct {
	Name                 string          `json:"name" binding:"required,min=1,max=100"`
	Description          string          `json:"description"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
}

// UpdateUserGroupRequest represents a request to update a group
type UpdateUserGroupRequest struct {
	Name                 *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description          *string          `json:"description"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
}

// UserGroupResponse represents a group in API responses
type UserGroupResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	IsAgentGroup         bool            `json:"is_agent_group"`
	Version              int             `json:"version"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// UserGroupListFilter represents filters for listing groups
type UserGroupListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(u *identity.User) UserResponse {
	groups := make([]UserGroupResponse, 0, len(u.Groups))
	for i := range u.Groups {
		groups = append(groups, ToUserGroupResponse(&u.Groups[i]))
	}
	return UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		IsStaff:         u.IsStaff,
		IsActive:        u.IsActive,
		IsAgent:         u.IsAgent(),
		CommissionRate:  u.CommissionRate(),
		AssignedAgentID: u.AssignedAgentID,
		Groups:          groups,
		Version:         u.Version,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ToUserListResponse converts a domain user to a list item DTO
func ToUserListResponse(u *identity.User) UserListResponse {
	return UserListResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		IsStaff:        u.IsStaff,
		IsActive:       u.IsActive,
		IsAgent:        u.IsAgent(),
		CommissionRate: u.CommissionRate(),
		CreatedAt:      u.CreatedAt,
	}
}

// ToUserGroupResponse converts a domain group to a response DTO
func ToUserGroupResponse(g *identity.UserGroup) UserGroupResponse {
	return UserGroupResponse{
		ID:                   g.ID,
		Name:                 g.Name,
		Description:          g.Description,
		CommissionPercentage: g.CommissionPercentage,
		IsAgentGroup:         g.IsAgentGroup(),
		Version:              g.Version,
		CreatedAt:            g.CreatedAt,
		UpdatedAt:            g.UpdatedAt,
	}
}
