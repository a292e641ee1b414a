package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product with valid input", func(t *testing.T) {
		product, err := NewProduct(tenantID, "WIDGET-01", "Widget", decimal.NewFromFloat(6.00))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "WIDGET-01", product.SKU)
		assert.Equal(t, "Widget", product.Name)
		assert.True(t, product.IsActive)
		assert.False(t, product.MembersOnly)

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("converts sku to uppercase", func(t *testing.T) {
		product, err := NewProduct(tenantID, "widget-01", "Widget", decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "WIDGET-01", product.SKU)
	})

	t.Run("fails with empty sku", func(t *testing.T) {
		_, err := NewProduct(tenantID, "", "Widget", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct(tenantID, "WIDGET-01", "Widget", decimal.NewFromFloat(-1))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "negative")
	})
}

func TestProduct_AvailableTo(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name        string
		membersOnly bool
		active      bool
		isMember    bool
		want        bool
	}{
		{"open product, guest buyer", false, true, false, true},
		{"open product, member buyer", false, true, true, true},
		{"members-only, guest buyer", true, true, false, false},
		{"members-only, member buyer", true, true, true, true},
		{"inactive product", false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := NewProduct(tenantID, "SKU-1", "Thing", decimal.NewFromInt(10))
			require.NoError(t, err)
			product.MembersOnly = tt.membersOnly
			product.IsActive = tt.active
			assert.Equal(t, tt.want, product.AvailableTo(tt.isMember))
		})
	}
}

func TestProduct_Update(t *testing.T) {
	product, err := NewProduct(uuid.New(), "SKU-1", "Thing", decimal.NewFromInt(10))
	require.NoError(t, err)
	product.ClearDomainEvents()

	err = product.Update("Thing v2", "improved", decimal.NewFromInt(12), true)
	require.NoError(t, err)
	assert.Equal(t, "Thing v2", product.Name)
	assert.True(t, product.MembersOnly)
	assert.True(t, decimal.NewFromInt(12).Equal(product.SellingPrice))
	require.Len(t, product.GetDomainEvents(), 1)

	err = product.Update("", "", decimal.Zero, false)
	assert.Error(t, err)
}
