package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"sku":           true,
	"name":          true,
	"selling_price": true,
	"is_active":     true,
	"members_only":  true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"username":   true,
	"email":      true,
	"is_staff":   true,
	"is_active":  true,
}

// QuotationSortFields contains allowed sort fields for quotations
var QuotationSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"quotation_number": true,
	"supplier_name":    true,
	"date_quoted":      true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"supplier_name":  true,
	"status":         true,
	"date_issued":    true,
	"payment_date":   true,
}

// BatchSortFields contains allowed sort fields for inventory batches
var BatchSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"batch_number":  true,
	"product_id":    true,
	"quantity":      true,
	"received_date": true,
	"expiry_date":   true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"order_number": true,
	"buyer_name":   true,
	"status":       true,
}

// LedgerSortFields contains allowed sort fields for commission ledger entries
var LedgerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"agent_name": true,
	"order_id":   true,
	"amount":     true,
	"status":     true,
	"paid_at":    true,
}
