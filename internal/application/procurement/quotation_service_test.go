package procurement

import (
	"context"
	"testing"
	"time"

	"github.com/distributor/backend/internal/domain/catalog"
	"github.com/distributor/backend/internal/domain/partner"
	"github.com/distributor/backend/internal/domain/procurement"
	"github.com/distributor/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newQuotationService() (*QuotationService, *MockQuotationRepository, *MockSupplierRepository, *MockProductRepository, *MockInvoiceRepository) {
	quotations := new(MockQuotationRepository)
	suppliers := new(MockSupplierRepository)
	products := new(MockProductRepository)
	invoices := new(MockInvoiceRepository)
	return NewQuotationService(quotations, suppliers, products, invoices), quotations, suppliers, products, invoices
}

func TestQuotationService_CreateQuotation_Success(t *testing.T) {
	service, quotations, suppliers, products, _ := newQuotationService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	supplier, _ := partner.NewSupplier(tenantID, "ACME", "Acme Trading")
	product, _ := catalog.NewProduct(tenantID, "WIDGET-01", "Widget", decimal.NewFromInt(6))

	req := CreateQuotationRequest{
		SupplierID:         supplier.ID,
		TransportationCost: decimal.NewFromInt(10),
		Items: []CreateQuotationItemRequest{
			{ProductID: product.ID, Quantity: 5, QuotedPrice: decimal.NewFromInt(2)},
		},
	}

	suppliers.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
	products.On("FindByIDForTenant", ctx, tenantID, product.ID).Return(product, nil)
	quotations.On("GenerateQuotationNumber", ctx, tenantID).Return("QTN-2508-0001", nil)
	quotations.On("Save", ctx, mock.AnythingOfType("*procurement.Quotation")).Return(nil)

	result, err := service.CreateQuotation(ctx, tenantID, req)

	require.NoError(t, err)
	assert.Equal(t, "QTN-2508-0001", result.QuotationNumber)
	assert.Equal(t, QuotationStatusPending, result.Status)
	assert.Equal(t, "Acme Trading", result.SupplierName)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Widget", result.Items[0].ProductName)
	// 5 units at 2.00 plus the full 10.00 transport charge: 4.00 landed
	assert.True(t, result.Items[0].LandedCostPerUnit.Equal(decimal.NewFromInt(4)),
		"landed cost %s", result.Items[0].LandedCostPerUnit)
	assert.True(t, result.TotalLandedCost.Equal(decimal.NewFromInt(20)))
	quotations.AssertExpectations(t)
}

func TestQuotationService_CreateQuotation_InactiveSupplier(t *testing.T) {
	service, _, suppliers, _, _ := newQuotationService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	supplier, _ := partner.NewSupplier(tenantID, "ACME", "Acme Trading")
	supplier.Deactivate()

	suppliers.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)

	result, err := service.CreateQuotation(ctx, tenantID, CreateQuotationRequest{
		SupplierID: supplier.ID,
		Items:      []CreateQuotationItemRequest{{ProductID: uuid.New(), Quantity: 1, QuotedPrice: decimal.NewFromInt(1)}},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SUPPLIER_INACTIVE", domainErr.Code)
}

func TestQuotationService_UpdateQuotation_InvoicedIsFrozen(t *testing.T) {
	service, quotations, _, _, invoices := newQuotationService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	quotation, _ := procurement.NewQuotation(tenantID, uuid.New(), "Acme Trading", time.Now(), decimal.NewFromInt(10))

	quotations.On("FindByIDForTenant", ctx, tenantID, quotation.ID).Return(quotation, nil)
	invoices.On("ExistsForQuotation", ctx, tenantID, quotation.ID).Return(true, nil)

	notes := "updated"
	result, err := service.UpdateQuotation(ctx, tenantID, quotation.ID, UpdateQuotationRequest{Notes: &notes})

	assert.ErrorIs(t, err, ErrQuotationInvoiced)
	assert.Nil(t, result)
	quotations.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestQuotationService_UpsertItem_RepricesExistingLine(t *testing.T) {
	service, quotations, _, _, invoices := newQuotationService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	productID := uuid.New()
	quotation, _ := procurement.NewQuotation(tenantID, uuid.New(), "Acme Trading", time.Now(), decimal.Zero)
	_, err := quotation.AddItem(productID, "Widget", 5, decimal.NewFromInt(2))
	require.NoError(t, err)

	quotations.On("FindByIDForTenant", ctx, tenantID, quotation.ID).Return(quotation, nil)
	invoices.On("ExistsForQuotation", ctx, tenantID, quotation.ID).Return(false, nil)
	quotations.On("SaveWithLock", ctx, quotation).Return(nil)

	result, err := service.UpsertItem(ctx, tenantID, quotation.ID, UpsertQuotationItemRequest{
		ProductID:   productID,
		Quantity:    8,
		QuotedPrice: decimal.NewFromInt(3),
	})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(8), result.Items[0].Quantity)
	assert.True(t, result.Items[0].QuotedPrice.Equal(decimal.NewFromInt(3)))
	quotations.AssertExpectations(t)
}

func TestQuotationService_DeleteQuotation_InvoicedIsRejected(t *testing.T) {
	service, quotations, _, _, invoices := newQuotationService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	quotation, _ := procurement.NewQuotation(tenantID, uuid.New(), "Acme Trading", time.Now(), decimal.Zero)

	quotations.On("FindByIDForTenant", ctx, tenantID, quotation.ID).Return(quotation, nil)
	invoices.On("ExistsForQuotation", ctx, tenantID, quotation.ID).Return(true, nil)

	err := service.DeleteQuotation(ctx, tenantID, quotation.ID)

	assert.ErrorIs(t, err, ErrQuotationInvoiced)
	quotations.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotationService_ListQuotations_ResolvesInvoicedStatus(t *testing.T) {
	service, quotations, _, _, invoices := newQuotationService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	first, _ := procurement.NewQuotation(tenantID, uuid.New(), "Acme Trading", time.Now(), decimal.Zero)
	second, _ := procurement.NewQuotation(tenantID, uuid.New(), "Beta Goods", time.Now(), decimal.Zero)

	quotations.On("FindAllForTenant", ctx, tenantID, mock.AnythingOfType("shared.Filter")).
		Return([]procurement.Quotation{*first, *second}, nil)
	quotations.On("CountForTenant", ctx, tenantID, mock.AnythingOfType("shared.Filter")).Return(int64(2), nil)
	invoices.On("InvoicedQuotationIDs", ctx, tenantID, []uuid.UUID{first.ID, second.ID}).
		Return(map[uuid.UUID]bool{first.ID: true}, nil)

	items, total, err := service.ListQuotations(ctx, tenantID, QuotationListFilter{})

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, QuotationStatusCompleted, items[0].Status)
	assert.Equal(t, QuotationStatusPending, items[1].Status)
	invoices.AssertExpectations(t)
}
