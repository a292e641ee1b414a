package sales

import (
	"strings"
	"time"

	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment state of a sales order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusToPay     OrderStatus = "TO_PAY"
	OrderStatusToShip    OrderStatus = "TO_SHIP"
	OrderStatusToReceive OrderStatus = "TO_RECEIVE"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusToPay, OrderStatusToShip,
		OrderStatusToReceive, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for states the order cannot leave
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo checks if transitioning to the target status is allowed.
// Fulfilment advances one step at a time; cancellation is reachable from
// any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	next := map[OrderStatus]OrderStatus{
		OrderStatusPending:   OrderStatusToPay,
		OrderStatusToPay:     OrderStatusToShip,
		OrderStatusToShip:    OrderStatusToReceive,
		OrderStatusToReceive: OrderStatusCompleted,
	}
	return next[s] == target
}

// Order is a buyer's purchase. Each line freezes the selling price and
// the landed cost of the product at the moment of submission, so the
// profit recorded here survives later catalog and quotation changes.
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	BuyerID         uuid.UUID   `gorm:"type:uuid;not null;index"`
	BuyerName       string      `gorm:"type:varchar(200);not null"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SubmissionToken string      `gorm:"type:varchar(100);uniqueIndex:idx_order_tenant_token,priority:2"`
	Notes           string      `gorm:"type:text"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem is one purchased line with its price and cost snapshots.
// Profit is computed once at construction and stored.
type OrderItem struct {
	shared.BaseEntity
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	Quantity     int64           `gorm:"not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LandedCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Profit       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrder creates a new order for a buyer
func NewOrder(tenantID, buyerID uuid.UUID, buyerName string) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer is required")
	}
	if strings.TrimSpace(buyerName) == "" {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer name is required")
	}

	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BuyerID:             buyerID,
		BuyerName:           buyerName,
		Status:              OrderStatusPending,
		Items:               make([]OrderItem, 0),
	}, nil
}

// AddItem appends a purchased line, freezing price and cost. The landed
// cost defaults to zero when the product has never been quoted; profit
// is then the full sale value, which overstates margin but keeps orders
// flowing for products without procurement history.
func (o *Order) AddItem(productID uuid.UUID, productName string, quantity int64, sellingPrice, landedCost decimal.Decimal) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if landedCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Landed cost cannot be negative")
	}

	item := OrderItem{
		BaseEntity:   shared.NewBaseEntity(),
		OrderID:      o.ID,
		TenantID:     o.TenantID,
		ProductID:    productID,
		ProductName:  productName,
		Quantity:     quantity,
		SellingPrice: sellingPrice,
		LandedCost:   landedCost,
		Profit:       sellingPrice.Sub(landedCost).Mul(decimal.NewFromInt(quantity)),
	}
	o.Items = append(o.Items, item)
	o.UpdatedAt = time.Now()

	return &o.Items[len(o.Items)-1], nil
}

// Submit finalizes the order for processing. An order without lines
// cannot be submitted.
func (o *Order) Submit() error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	o.AddDomainEvent(NewOrderSubmittedEvent(o))
	return nil
}

// TransitionTo advances the order along the fulfilment path
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition order from "+string(o.Status)+" to "+string(target))
	}
	old := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, target))
	return nil
}

// ForceStatus sets the status directly, bypassing the fulfilment path.
// Reserved for staff corrections.
func (o *Order) ForceStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(target))
	}
	if o.Status == target {
		return nil
	}
	old := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, old, target))
	return nil
}

// Cancel voids the order
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled)
}

// TotalAmount returns the sale value of the order
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].TotalPrice())
	}
	return total
}

// TotalProfit returns the stored profit across all lines
func (o *Order) TotalProfit() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Profit)
	}
	return total
}

// TotalPrice returns quantity times selling price for this line
func (oi *OrderItem) TotalPrice() decimal.Decimal {
	return oi.SellingPrice.Mul(decimal.NewFromInt(oi.Quantity))
}

// ComputeProfit derives profit from the stored snapshots. The stored
// Profit column should always equal this; it exists so commission
// generation can recompute when handed a row whose profit was never
// persisted.
func (oi *OrderItem) ComputeProfit() decimal.Decimal {
	return oi.SellingPrice.Sub(oi.LandedCost).Mul(decimal.NewFromInt(oi.Quantity))
}
