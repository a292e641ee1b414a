package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents an account on the platform: a customer, an agent, or
// a staff member. Agent standing is not a flag on the user; it follows
// from membership in a group with a positive commission percentage.
type User struct {
	shared.TenantAggregateRoot
	Username        string      `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	Email           string      `gorm:"type:varchar(200);index"`
	PasswordHash    string      `gorm:"type:varchar(200);not null"`
	DisplayName     string      `gorm:"type:varchar(200)"`
	IsStaff         bool        `gorm:"not null;default:false"`
	IsActive        bool        `gorm:"not null;default:true"`
	AssignedAgentID *uuid.UUID  `gorm:"type:uuid;index"`
	Groups          []UserGroup `gorm:"many2many:user_group_members;"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// NewUser creates a new user. The password hash must already be
// computed by the caller; the domain never sees plaintext passwords.
func NewUser(tenantID uuid.UUID, username, email, passwordHash string) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		Email:               email,
		PasswordHash:        passwordHash,
		IsActive:            true,
	}, nil
}

// CommissionRate returns the user's effective commission percentage:
// the highest rate among the groups the user belongs to. Returns zero
// when the user is in no agent group.
//
// When a user sits in several agent groups the original data model gave
// no ordering, so the choice was arbitrary; taking the maximum makes
// the outcome deterministic and never short-changes the agent.
func (u *User) CommissionRate() decimal.Decimal {
	rate := decimal.Zero
	for _, g := range u.Groups {
		if g.CommissionPercentage.GreaterThan(rate) {
			rate = g.CommissionPercentage
		}
	}
	return rate
}

// IsAgent returns true if the user earns commission on sales
func (u *User) IsAgent() bool {
	return u.CommissionRate().IsPositive()
}

// IsMember returns true if the user belongs to at least one group,
// which gates members-only products.
func (u *User) IsMember() bool {
	return len(u.Groups) > 0
}

// AssignAgent links the user to the agent who manages their purchases
func (u *User) AssignAgent(agentID uuid.UUID) error {
	if agentID == u.ID {
		return shared.NewDomainError("INVALID_AGENT", "User cannot be their own assigned agent")
	}
	u.AssignedAgentID = &agentID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// ClearAssignedAgent removes the agent link
func (u *User) ClearAssignedAgent() {
	u.AssignedAgentID = nil
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Deactivate disables the account
func (u *User) Deactivate() {
	if !u.IsActive {
		return
	}
	u.IsActive = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, dots, underscores, and hyphens")
	}
	return nil
}
