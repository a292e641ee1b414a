package identity

import (
	"strings"
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserGroup represents a membership group. A group with a positive
// commission percentage marks its members as agents: sales attributed
// to them (or to buyers they manage) earn commission at that rate.
type UserGroup struct {
	shared.TenantAggregateRoot
	Name                 string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_group_tenant_name,priority:2"`
	Description          string          `gorm:"type:text"`
	CommissionPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (UserGroup) TableName() string {
	return "user_groups"
}

// NewUserGroup creates a new user group
func NewUserGroup(tenantID uuid.UUID, name string, commissionPercentage decimal.Decimal) (*UserGroup, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Group name cannot be empty")
	}
	if commissionPercentage.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Commission percentage cannot be negative")
	}
	if commissionPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Commission percentage cannot exceed 100")
	}

	return &UserGroup{
		TenantAggregateRoot:  shared.NewTenantAggregateRoot(tenantID),
		Name:                 name,
		CommissionPercentage: commissionPercentage,
	}, nil
}

// UpdateCommission changes the group's commission percentage
func (g *UserGroup) UpdateCommission(percentage decimal.Decimal) error {
	if percentage.IsNegative() {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission percentage cannot be negative")
	}
	if percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COMMISSION", "Commission percentage cannot exceed 100")
	}
	g.CommissionPercentage = percentage
	g.UpdatedAt = time.Now()
	g.IncrementVersion()
	return nil
}

// IsAgentGroup returns true if members of this group earn commission
func (g *UserGroup) IsAgentGroup() bool {
	return g.CommissionPercentage.IsPositive()
}
