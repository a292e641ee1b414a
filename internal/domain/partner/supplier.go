package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier represents a goods supplier quoted against and invoiced by
// It is the aggregate root for supplier-related operations
type Supplier struct {
	shared.TenantAggregateRoot
	Code          string         `gorm:"type:varchar(50);not null;uniqueIndex:idx_supplier_tenant_code,priority:2"`
	Name          string         `gorm:"type:varchar(200);not null;uniqueIndex:idx_supplier_tenant_name,priority:2"`
	Status        SupplierStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactPerson string         `gorm:"type:varchar(100)"`
	Phone         string         `gorm:"type:varchar(50);index"`
	Email         string         `gorm:"type:varchar(200);index"`
	Address       string         `gorm:"type:text"`
	Notes         string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

var supplierCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NewSupplier creates a new supplier with required fields
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}

	supplier := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              SupplierStatusActive,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Update updates the supplier's basic information
func (s *Supplier) Update(name, contactPerson, phone, email, address, notes string) error {
	if err := validateSupplierName(name); err != nil {
		return err
	}

	s.Name = name
	s.ContactPerson = contactPerson
	s.Phone = phone
	s.Email = email
	s.Address = address
	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierUpdatedEvent(s))
	return nil
}

// Activate marks the supplier as active
func (s *Supplier) Activate() {
	if s.Status == SupplierStatusActive {
		return
	}
	old := s.Status
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, old, s.Status))
}

// Deactivate marks the supplier as inactive
func (s *Supplier) Deactivate() {
	if s.Status == SupplierStatusInactive {
		return
	}
	old := s.Status
	s.Status = SupplierStatusInactive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, old, s.Status))
}

// IsActive returns true if the supplier is active
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

func validateSupplierCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot exceed 50 characters")
	}
	if !supplierCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Supplier code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateSupplierName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	return nil
}
