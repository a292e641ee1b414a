package procurement

import (
	"strings"
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quotation is a supplier's priced offer for a set of products plus a
// single transportation charge for the whole shipment. It is the source
// of truth for what goods actually cost: the transport charge is spread
// across the items in proportion to their share of the quotation's
// value, giving each item a landed cost per unit.
type Quotation struct {
	shared.TenantAggregateRoot
	QuotationNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_quotation_tenant_number,priority:2"`
	SupplierID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierName       string          `gorm:"type:varchar(200);not null"`
	DateQuoted         time.Time       `gorm:"not null;index"`
	TransportationCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes              string          `gorm:"type:text"`
	Items              []QuotationItem `gorm:"foreignKey:QuotationID"`
}

// QuotationItem is one priced line of a quotation
type QuotationItem struct {
	shared.BaseEntity
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	QuotedPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

// TableName returns the table name for GORM
func (QuotationItem) TableName() string {
	return "quotation_items"
}

// NewQuotation creates a new quotation
func NewQuotation(tenantID, supplierID uuid.UUID, supplierName string, dateQuoted time.Time, transportationCost decimal.Decimal) (*Quotation, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name is required")
	}
	if transportationCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TRANSPORT_COST", "Transportation cost cannot be negative")
	}
	if dateQuoted.IsZero() {
		dateQuoted = time.Now()
	}

	q := &Quotation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          supplierID,
		SupplierName:        supplierName,
		DateQuoted:          dateQuoted,
		TransportationCost:  transportationCost,
		Items:               make([]QuotationItem, 0),
	}

	q.AddDomainEvent(NewQuotationCreatedEvent(q))

	return q, nil
}

// AddItem appends a priced line to the quotation
func (q *Quotation) AddItem(productID uuid.UUID, productName string, quantity int64, quotedPrice decimal.Decimal) (*QuotationItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quotedPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Quoted price cannot be negative")
	}

	item := QuotationItem{
		BaseEntity:  shared.NewBaseEntity(),
		QuotationID: q.ID,
		TenantID:    q.TenantID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		QuotedPrice: quotedPrice,
	}
	q.Items = append(q.Items, item)
	q.UpdatedAt = time.Now()
	q.IncrementVersion()

	return &q.Items[len(q.Items)-1], nil
}

// UpdateItem changes the quantity and price of an existing line
func (q *Quotation) UpdateItem(itemID uuid.UUID, quantity int64, quotedPrice decimal.Decimal) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quotedPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Quoted price cannot be negative")
	}
	for i := range q.Items {
		if q.Items[i].ID == itemID {
			q.Items[i].Quantity = quantity
			q.Items[i].QuotedPrice = quotedPrice
			q.Items[i].UpdatedAt = time.Now()
			q.UpdatedAt = time.Now()
			q.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
}

// RemoveItem deletes a line from the quotation
func (q *Quotation) RemoveItem(itemID uuid.UUID) error {
	for i := range q.Items {
		if q.Items[i].ID == itemID {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			q.UpdatedAt = time.Now()
			q.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Quotation item not found")
}

// FindItem returns the item with the given ID, or nil
func (q *Quotation) FindItem(itemID uuid.UUID) *QuotationItem {
	for i := range q.Items {
		if q.Items[i].ID == itemID {
			return &q.Items[i]
		}
	}
	return nil
}

// ItemCount returns the number of lines on the quotation
func (q *Quotation) ItemCount() int {
	return len(q.Items)
}

// TotalValue returns the goods value of the quotation, before transport
func (q *Quotation) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for i := range q.Items {
		total = total.Add(q.Items[i].TotalItemPrice())
	}
	return total
}

// TotalLandedCost returns the goods value plus the transportation charge
func (q *Quotation) TotalLandedCost() decimal.Decimal {
	return q.TotalValue().Add(q.TransportationCost)
}

// TotalItemPrice returns quantity times quoted price for this line
func (qi *QuotationItem) TotalItemPrice() decimal.Decimal {
	return qi.QuotedPrice.Mul(decimal.NewFromInt(qi.Quantity))
}

// TransportShareFor returns the slice of the header transportation cost
// attributed to the given item, in proportion to its share of the
// quotation's goods value. A quotation with zero goods value has
// nothing to apportion against, so the share is zero.
func (q *Quotation) TransportShareFor(item *QuotationItem) decimal.Decimal {
	totalValue := q.TotalValue()
	if totalValue.IsZero() {
		return decimal.Zero
	}
	return q.TransportationCost.Mul(item.TotalItemPrice()).Div(totalValue)
}

// LandedCostPerUnitFor returns the true per-unit acquisition cost of the
// item: (goods price + transport share) / quantity. Degenerate inputs
// (zero quantity, or a zero-value quotation) fall back to the quoted
// price rather than failing, so cost lookups never error out.
func (q *Quotation) LandedCostPerUnitFor(item *QuotationItem) decimal.Decimal {
	if item.Quantity == 0 || q.TotalValue().IsZero() {
		return item.QuotedPrice
	}
	share := q.TransportShareFor(item)
	return item.TotalItemPrice().Add(share).Div(decimal.NewFromInt(item.Quantity))
}

// TransportCostPerUnitFor returns the per-unit transport component of
// the item's landed cost. Zero under the same degenerate conditions
// that make LandedCostPerUnitFor fall back to the quoted price.
func (q *Quotation) TransportCostPerUnitFor(item *QuotationItem) decimal.Decimal {
	if item.Quantity == 0 || q.TotalValue().IsZero() {
		return decimal.Zero
	}
	return q.TransportShareFor(item).Div(decimal.NewFromInt(item.Quantity))
}
