package catalog

import (
	"context"
	"errors"

	"github.com/distributor/backend/internal/domain/inventory"
	"github.com/distributor/backend/internal/domain/procurement"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCostService derives what a product actually costs. The catalog
// stores no cost figure of its own: the landed cost per unit is read
// off the most recent quotation that priced the product, transport
// apportioned pro-rata across the quotation's lines. Stock on hand is
// the sum of received inventory batches.
type ProductCostService struct {
	quotationRepo procurement.QuotationRepository
	batchRepo     inventory.BatchRepository
}

// NewProductCostService creates a new ProductCostService
func NewProductCostService(quotationRepo procurement.QuotationRepository, batchRepo inventory.BatchRepository) *ProductCostService {
	return &ProductCostService{
		quotationRepo: quotationRepo,
		batchRepo:     batchRepo,
	}
}

// GetProductCost resolves the current acquisition cost and stock on
// hand for one product. A product that was never quoted comes back
// with Quoted=false and zero costs rather than an error: selling such
// a product is allowed, its profit is simply overstated.
func (s *ProductCostService) GetProductCost(ctx context.Context, tenantID, productID uuid.UUID) (*ProductCostResponse, error) {
	resp := &ProductCostResponse{
		ProductID:            productID,
		QuotedPrice:          decimal.Zero,
		TransportCostPerUnit: decimal.Zero,
		LandedCostPerUnit:    decimal.Zero,
	}

	quotation, err := s.quotationRepo.FindLatestForProduct(ctx, tenantID, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if quotation != nil {
		applyQuotationCost(resp, quotation, productID)
	}

	stock, err := s.batchRepo.SumQuantityForProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp.StockOnHand = stock

	return resp, nil
}

// ResolveLandedCosts resolves the landed cost per unit for a set of
// products in one round, keyed by product ID. Products never quoted map
// to zero. Order submission uses this to freeze costs at sale time.
func (s *ProductCostService) ResolveLandedCosts(ctx context.Context, tenantID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	costs := make(map[uuid.UUID]decimal.Decimal, len(productIDs))
	for _, id := range productIDs {
		costs[id] = decimal.Zero
	}

	quotations, err := s.quotationRepo.FindLatestForProducts(ctx, tenantID, productIDs)
	if err != nil {
		return nil, err
	}
	for productID, q := range quotations {
		if item := findQuotationLine(q, productID); item != nil {
			costs[productID] = q.LandedCostPerUnitFor(item)
		}
	}
	return costs, nil
}

func applyQuotationCost(resp *ProductCostResponse, q *procurement.Quotation, productID uuid.UUID) {
	item := findQuotationLine(q, productID)
	if item == nil {
		return
	}
	resp.Quoted = true
	resp.QuotationID = &q.ID
	resp.QuotationNumber = q.QuotationNumber
	resp.SupplierID = &q.SupplierID
	resp.SupplierName = q.SupplierName
	dateQuoted := q.DateQuoted
	resp.DateQuoted = &dateQuoted
	resp.QuotedPrice = item.QuotedPrice
	resp.TransportCostPerUnit = q.TransportCostPerUnitFor(item)
	resp.LandedCostPerUnit = q.LandedCostPerUnitFor(item)
}

func findQuotationLine(q *procurement.Quotation, productID uuid.UUID) *procurement.QuotationItem {
	for i := range q.Items {
		if q.Items[i].ProductID == productID {
			return &q.Items[i]
		}
	}
	return nil
}
