package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryBatch(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates batch with valid input", func(t *testing.T) {
		batch, err := NewInventoryBatch(tenantID, uuid.New(), uuid.New(), "LOT-2026-03", 50, time.Now())
		require.NoError(t, err)
		assert.EqualValues(t, 50, batch.Quantity)
		assert.Nil(t, batch.InvoiceItemID)
		assert.Nil(t, batch.ExpiryDate)

		events := batch.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockReceived, events[0].EventType())
	})

	t.Run("defaults received date to now", func(t *testing.T) {
		batch, err := NewInventoryBatch(tenantID, uuid.New(), uuid.New(), "LOT-1", 1, time.Time{})
		require.NoError(t, err)
		assert.False(t, batch.ReceivedDate.IsZero())
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewInventoryBatch(tenantID, uuid.New(), uuid.New(), "LOT-1", 0, time.Now())
		assert.Error(t, err)
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewInventoryBatch(tenantID, uuid.New(), uuid.New(), "LOT-1", -5, time.Now())
		assert.Error(t, err)
	})

	t.Run("requires quotation reference", func(t *testing.T) {
		_, err := NewInventoryBatch(tenantID, uuid.New(), uuid.Nil, "LOT-1", 5, time.Now())
		assert.Error(t, err)
	})

	t.Run("requires batch number", func(t *testing.T) {
		_, err := NewInventoryBatch(tenantID, uuid.New(), uuid.New(), "", 5, time.Now())
		assert.Error(t, err)
	})
}

func TestInventoryBatch_Links(t *testing.T) {
	batch, err := NewInventoryBatch(uuid.New(), uuid.New(), uuid.New(), "LOT-1", 5, time.Now())
	require.NoError(t, err)

	itemID := uuid.New()
	batch.LinkInvoiceItem(itemID)
	require.NotNil(t, batch.InvoiceItemID)
	assert.Equal(t, itemID, *batch.InvoiceItemID)

	supplierID := uuid.New()
	batch.SetSupplier(supplierID)
	require.NotNil(t, batch.SupplierID)
	assert.Equal(t, supplierID, *batch.SupplierID)
}

func TestInventoryBatch_Expiry(t *testing.T) {
	received := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	batch, err := NewInventoryBatch(uuid.New(), uuid.New(), uuid.New(), "LOT-1", 5, received)
	require.NoError(t, err)

	assert.Error(t, batch.SetExpiry(received.AddDate(0, 0, -1)))

	expiry := received.AddDate(1, 0, 0)
	require.NoError(t, batch.SetExpiry(expiry))
	assert.False(t, batch.IsExpired(expiry.AddDate(0, 0, -1)))
	assert.True(t, batch.IsExpired(expiry.AddDate(0, 0, 1)))
}
