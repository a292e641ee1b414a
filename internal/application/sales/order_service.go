package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/distributor/backend/internal/domain/catalog"
	"github.com/distributor/backend/internal/domain/commission"
	"github.com/distributor/backend/internal/domain/identity"
	"github.com/distributor/backend/internal/domain/sales"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/distributor/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// submissionTokenTTL bounds how long an in-flight submission token
// blocks a concurrent retry. The database unique index on the token is
// the final guarantor; the store only absorbs rapid double-clicks.
const submissionTokenTTL = 24 * time.Hour

// LandedCostResolver freezes acquisition costs at sale time
type LandedCostResolver interface {
	ResolveLandedCosts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// OrderService handles order submission and fulfilment. Submission is
// the moment the financial pipeline converges: selling prices and
// landed costs are frozen onto the order lines, profit is recorded,
// and commission ledger entries are written in the same transaction as
// the order itself.
type OrderService struct {
	db          *persistence.Database
	orderRepo   sales.OrderRepository
	userRepo    identity.UserRepository
	productRepo catalog.ProductRepository
	ledgerRepo  commission.LedgerRepository
	costs       LandedCostResolver
	generator   *commission.Generator
	idempotency shared.IdempotencyStore
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	db *persistence.Database,
	orderRepo sales.OrderRepository,
	userRepo identity.UserRepository,
	productRepo catalog.ProductRepository,
	ledgerRepo commission.LedgerRepository,
	costs LandedCostResolver,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		db:          db,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		costs:       costs,
		generator:   commission.NewGenerator(),
		idempotency: idempotency,
		logger:      logger.Named("orders"),
	}
}

// SetEventPublisher wires a publisher for order lifecycle events.
// Publishing stays disabled until one is set.
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publishEvents drains the order's recorded events after the state
// change has been persisted. Delivery failures are logged rather than
// returned: the order is already committed.
func (s *OrderService) publishEvents(ctx context.Context, order *sales.Order) {
	if s.events == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
	order.ClearDomainEvents()
}

// SubmitOrder creates an order from the buyer's requested lines. Each
// line freezes the product's selling price and its landed cost derived
// from the latest quotation; commission entries for the responsible
// agent are generated and persisted atomically with the order.
//
// A submission token makes the call idempotent: a replay returns the
// original order, flagged as such, instead of creating a duplicate.
func (s *OrderService) SubmitOrder(ctx context.Context, tenantID uuid.UUID, req SubmitOrderRequest) (*OrderResponse, error) {
	if req.SubmissionToken != "" {
		existing, err := s.orderRepo.FindBySubmissionToken(ctx, tenantID, req.SubmissionToken)
		if err == nil {
			resp := ToOrderResponse(existing)
			resp.Replayed = true
			resp.CommissionCount = s.commissionCount(ctx, tenantID, existing.ID)
			return &resp, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}

		first, err := s.idempotency.MarkProcessed(ctx, submissionKey(tenantID, req.SubmissionToken), submissionTokenTTL)
		if err != nil {
			return nil, err
		}
		if !first {
			return nil, shared.ErrDuplicateSubmission
		}
	}

	buyer, err := s.userRepo.FindByIDForTenant(ctx, tenantID, req.BuyerID)
	if err != nil {
		return nil, err
	}
	if !buyer.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Buyer account is disabled")
	}

	order, err := s.buildOrder(ctx, tenantID, buyer, req)
	if err != nil {
		return nil, err
	}

	number, err := s.orderRepo.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	var assignedAgent *identity.User
	if buyer.AssignedAgentID != nil {
		assignedAgent, err = s.userRepo.FindByIDForTenant(ctx, tenantID, *buyer.AssignedAgentID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	commissionCount := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txOrders := persistence.NewGormOrderRepository(tx)
		txLedger := persistence.NewGormLedgerRepository(tx)

		if err := txOrders.Save(ctx, order); err != nil {
			return err
		}
		for i := range order.Items {
			outcome := s.generator.Evaluate(&order.Items[i], buyer, assignedAgent)
			if outcome.Skipped() {
				continue
			}
			if err := txLedger.Save(ctx, outcome.Entry); err != nil {
				return err
			}
			commissionCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order submitted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("buyer_id", buyer.ID.String()),
		zap.String("total_amount", order.TotalAmount().String()),
		zap.Int("commission_entries", commissionCount))

	s.publishEvents(ctx, order)

	resp := ToOrderResponse(order)
	resp.CommissionCount = commissionCount
	return &resp, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	resp.CommissionCount = s.commissionCount(ctx, tenantID, order.ID)
	return &resp, nil
}

// UpdateStatus moves an order along the fulfilment path, one step at a
// time. Force applies the status directly for staff corrections.
// Cancelling through here also voids the order's pending commission.
func (s *OrderService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	if req.Status == sales.OrderStatusCancelled {
		return s.CancelOrder(ctx, tenantID, id)
	}

	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Force {
		err = order.ForceStatus(req.Status)
	} else {
		err = order.TransitionTo(req.Status)
	}
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// CancelOrder voids an order and cancels its pending commission in one
// transaction. Paid commission is untouched.
func (s *OrderService) CancelOrder(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}

	var cancelled int64
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txOrders := persistence.NewGormOrderRepository(tx)
		txLedger := persistence.NewGormLedgerRepository(tx)

		if err := txOrders.SaveWithLock(ctx, order); err != nil {
			return err
		}
		n, err := txLedger.CancelForOrder(ctx, tenantID, order.ID)
		if err != nil {
			return err
		}
		cancelled = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int64("commission_cancelled", cancelled))

	s.publishEvents(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListOrders retrieves orders with pagination and filtering
func (s *OrderService) ListOrders(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderListResponse, int64, error) {
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
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.BuyerID != nil {
		f.Filters["buyer_id"] = *filter.BuyerID
	}
	if filter.DateFrom != nil {
		f.Filters["date_from"] = *filter.DateFrom
	}
	if filter.DateTo != nil {
		f.Filters["date_to"] = *filter.DateTo
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}

	items := make([]OrderListResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderListResponse(&orders[i]))
	}
	return items, total, nil
}

// ListOrdersForBuyer retrieves the orders placed by one buyer
func (s *OrderService) ListOrdersForBuyer(ctx context.Context, tenantID, buyerID uuid.UUID, filter OrderListFilter) ([]OrderListResponse, error) {
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
	}
	if filter.Status != "" {
		f.Filters = map[string]interface{}{"status": filter.Status}
	}

	orders, err := s.orderRepo.FindByBuyer(ctx, tenantID, buyerID, f)
	if err != nil {
		return nil, err
	}

	items := make([]OrderListResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderListResponse(&orders[i]))
	}
	return items, nil
}

// buildOrder assembles the order aggregate with price and cost
// snapshots frozen from the catalog and the latest quotations
func (s *OrderService) buildOrder(ctx context.Context, tenantID uuid.UUID, buyer *identity.User, req SubmitOrderRequest) (*sales.Order, error) {
	productIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, line := range req.Items {
		productIDs = append(productIDs, line.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	costs, err := s.costs.ResolveLandedCosts(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}

	order, err := sales.NewOrder(tenantID, buyer.ID, buyerDisplayName(buyer))
	if err != nil {
		return nil, err
	}
	order.SubmissionToken = req.SubmissionToken
	order.Notes = req.Notes

	for _, line := range req.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product "+line.ProductID.String()+" not found")
		}
		if !product.AvailableTo(buyer.IsMember()) {
			return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product "+product.Name+" is not available to this buyer")
		}
		if _, err := order.AddItem(product.ID, product.Name, line.Quantity, product.SellingPrice, costs[product.ID]); err != nil {
			return nil, err
		}
	}

	if err := order.Submit(); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) commissionCount(ctx context.Context, tenantID, orderID uuid.UUID) int {
	entries, err := s.ledgerRepo.FindByOrder(ctx, tenantID, orderID)
	if err != nil {
		return 0
	}
	return len(entries)
}

func buyerDisplayName(u *identity.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func submissionKey(tenantID uuid.UUID, token string) string {
	return fmt.Sprintf("order:%s:%s", tenantID, token)
}
