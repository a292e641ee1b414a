package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Domain
// codes that carry useful meaning for clients (which rule fired, not
// just which status) are listed alongside the generic ERR_* codes and
// pass through to the response unchanged.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	// domain codes
	"NOT_FOUND":              http.StatusNotFound,
	"PRODUCT_NOT_FOUND":      http.StatusNotFound,
	"ITEM_NOT_FOUND":         http.StatusNotFound,
	"ALREADY_EXISTS":         http.StatusConflict,
	"DUPLICATE_SUBMISSION":   http.StatusConflict,
	"CONCURRENCY_CONFLICT":   http.StatusConflict,
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_BUYER":          http.StatusBadRequest,
	"INVALID_AGENT":          http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_COST":           http.StatusBadRequest,
	"INVALID_SKU":            http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_CODE":           http.StatusBadRequest,
	"INVALID_USERNAME":       http.StatusBadRequest,
	"INVALID_PASSWORD":       http.StatusBadRequest,
	"INVALID_COMMISSION":     http.StatusBadRequest,
	"INVALID_PRODUCT":        http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_SUPPLIER":       http.StatusBadRequest,
	"INVALID_QUOTATION":      http.StatusBadRequest,
	"INVALID_ORDER":          http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_STATUS":         http.StatusBadRequest,
	"INVALID_EXPIRY":         http.StatusBadRequest,
	"INVALID_BATCH_NUMBER":   http.StatusBadRequest,
	"INVALID_TRANSPORT_COST": http.StatusBadRequest,
	"EMPTY_ORDER":            http.StatusUnprocessableEntity,
	"UNAUTHORIZED":           http.StatusUnauthorized,
	"INVALID_CREDENTIALS":    http.StatusUnauthorized,
	"FORBIDDEN":              http.StatusForbidden,
	"ACCOUNT_DISABLED":       http.StatusForbidden,
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"SUPPLIER_INACTIVE":      http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":    http.StatusUnprocessableEntity,
	"NOT_AN_AGENT":           http.StatusUnprocessableEntity,
	"INVOICE_CANCELLED":      http.StatusUnprocessableEntity,
	"OVER_RECEIPT":           http.StatusUnprocessableEntity,
	"NO_QUOTATION":           http.StatusUnprocessableEntity,
	"QUOTATION_INVOICED":     http.StatusUnprocessableEntity,
	"ALREADY_INVOICED":       http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
