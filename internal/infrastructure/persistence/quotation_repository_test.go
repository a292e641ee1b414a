package persistence

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/distributor/backend/internal/domain/procurement"
	"github.com/distributor/backend/internal/domain/shared"
)

func setupQuotationTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&procurement.Quotation{}, &procurement.QuotationItem{})
	require.NoError(t, err)

	return db
}

var quotationNumberSeq atomic.Int64

func createTestQuotation(t *testing.T, repo *GormQuotationRepository, tenantID uuid.UUID, dateQuoted time.Time, products ...uuid.UUID) *procurement.Quotation {
	t.Helper()

	q, err := procurement.NewQuotation(tenantID, uuid.New(), "Acme Trading", dateQuoted, decimal.NewFromInt(10))
	require.NoError(t, err)
	q.QuotationNumber = fmt.Sprintf("QTN-2608-%04d", quotationNumberSeq.Add(1))

	for i, productID := range products {
		_, err := q.AddItem(productID, fmt.Sprintf("Product %d", i+1), 5, decimal.NewFromInt(2))
		require.NoError(t, err)
	}

	require.NoError(t, repo.Save(context.Background(), q))
	return q
}

func TestGormQuotationRepository_FindLatestForProduct(t *testing.T) {
	db := setupQuotationTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	productID := uuid.New()

	t.Run("returns not found when product was never quoted", func(t *testing.T) {
		_, err := repo.FindLatestForProduct(ctx, tenantID, productID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("newest date_quoted wins", func(t *testing.T) {
		older := createTestQuotation(t, repo, tenantID,
			time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), productID)
		newer := createTestQuotation(t, repo, tenantID,
			time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), productID)

		found, err := repo.FindLatestForProduct(ctx, tenantID, productID)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, found.ID)
		assert.NotEqual(t, older.ID, found.ID)
		assert.Len(t, found.Items, 1)
	})

	t.Run("does not cross tenants", func(t *testing.T) {
		otherTenant := uuid.New()
		_, err := repo.FindLatestForProduct(ctx, otherTenant, productID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("tie on date_quoted breaks by created_at", func(t *testing.T) {
		tieTenant := uuid.New()
		tieProduct := uuid.New()
		date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

		first := createTestQuotation(t, repo, tieTenant, date, tieProduct)
		second := createTestQuotation(t, repo, tieTenant, date, tieProduct)

		// force distinct created_at; sqlite timestamps can collide in-process
		require.NoError(t, db.Model(first).Update("created_at", date.Add(-time.Hour)).Error)
		require.NoError(t, db.Model(second).Update("created_at", date).Error)

		found, err := repo.FindLatestForProduct(ctx, tieTenant, tieProduct)
		require.NoError(t, err)
		assert.Equal(t, second.ID, found.ID)
	})
}

func TestGormQuotationRepository_FindLatestForProducts(t *testing.T) {
	db := setupQuotationTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()
	neverQuoted := uuid.New()

	createTestQuotation(t, repo, tenantID,
		time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), productA, productB)
	latestA := createTestQuotation(t, repo, tenantID,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), productA)

	result, err := repo.FindLatestForProducts(ctx, tenantID, []uuid.UUID{productA, productB, neverQuoted})
	require.NoError(t, err)

	require.Contains(t, result, productA)
	require.Contains(t, result, productB)
	assert.NotContains(t, result, neverQuoted)

	assert.Equal(t, latestA.ID, result[productA].ID)
	assert.NotEqual(t, latestA.ID, result[productB].ID)
}

func TestGormQuotationRepository_GenerateQuotationNumber(t *testing.T) {
	db := setupQuotationTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	prefix := fmt.Sprintf("QTN-%s-", time.Now().Format("0601"))

	number, err := repo.GenerateQuotationNumber(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, prefix+"0001", number)

	q, err := procurement.NewQuotation(tenantID, uuid.New(), "Acme Trading", time.Now(), decimal.Zero)
	require.NoError(t, err)
	q.QuotationNumber = number
	require.NoError(t, repo.Save(ctx, q))

	next, err := repo.GenerateQuotationNumber(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, prefix+"0002", next)

	// numbering restarts per tenant
	otherTenant, err := repo.GenerateQuotationNumber(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, prefix+"0001", otherTenant)
}

func TestGormQuotationRepository_DeleteForTenant(t *testing.T) {
	db := setupQuotationTestDB(t)
	repo := NewGormQuotationRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	q := createTestQuotation(t, repo, tenantID, time.Now(), uuid.New())

	require.NoError(t, repo.DeleteForTenant(ctx, tenantID, q.ID))

	_, err := repo.FindByIDForTenant(ctx, tenantID, q.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&procurement.QuotationItem{}).Where("quotation_id = ?", q.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, uuid.New()), shared.ErrNotFound)
}
