package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
// The acquisition cost of a product is not stored here: it is derived
// from the most recent supplier quotation (see ProductCostResolver in
// the application layer), so the catalog never drifts out of sync with
// procurement reality.
type Product struct {
	shared.TenantAggregateRoot
	SKU          string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MembersOnly  bool            `gorm:"not null;default:false"`
	IsActive     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NewProduct creates a new product with required fields
func NewProduct(tenantID uuid.UUID, sku, name string, sellingPrice decimal.Decimal) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		SellingPrice:        sellingPrice,
		IsActive:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's details
func (p *Product) Update(name, description string, sellingPrice decimal.Decimal, membersOnly bool) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}

	p.Name = name
	p.Description = description
	p.SellingPrice = sellingPrice
	p.MembersOnly = membersOnly
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// Activate makes the product available for sale
func (p *Product) Activate() {
	if p.IsActive {
		return
	}
	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Deactivate removes the product from sale
func (p *Product) Deactivate() {
	if !p.IsActive {
		return
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AvailableTo reports whether the product can be sold to the given buyer.
// Members-only products require membership.
func (p *Product) AvailableTo(isMember bool) bool {
	if !p.IsActive {
		return false
	}
	if p.MembersOnly && !isMember {
		return false
	}
	return true
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	if !skuPattern.MatchString(sku) {
		return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
