package csvimport

import (
	"errors"
	"fmt"
)

// Import error codes carried on RowError so clients can group failures
const (
	ErrCodeImportValidation      = "ERR_IMPORT_VALIDATION"
	ErrCodeImportRequiredField   = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeImportInvalidType     = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeImportInvalidLength   = "ERR_IMPORT_INVALID_LENGTH"
	ErrCodeImportInvalidRange    = "ERR_IMPORT_INVALID_RANGE"
	ErrCodeImportDuplicateInFile = "ERR_IMPORT_DUPLICATE_IN_FILE"
	ErrCodeImportDuplicateInDB   = "ERR_IMPORT_DUPLICATE_IN_DB"
)

// File-level failures that abort the import before any row is read
var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("invalid file encoding")
	ErrMissingHeader   = errors.New("CSV file missing header row")
)

// RowError describes one failed cell or row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrorCollection accumulates row errors up to a cap. The total keeps
// counting past the cap so truncation is visible to the caller.
type ErrorCollection struct {
	errors    []RowError
	maxErrors int
	total     int
}

// NewErrorCollection creates a collection that keeps at most maxErrors
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]RowError, 0, maxErrors),
		maxErrors: maxErrors,
	}
}

// Add records an error, dropping it silently once the cap is reached
func (ec *ErrorCollection) Add(err RowError) {
	ec.total++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddValidationError records a failure with an explicit code and message
func (ec *ErrorCollection) AddValidationError(row int, column, code, message string) {
	ec.Add(RowError{Row: row, Column: column, Code: code, Message: message})
}

// AddRequiredError records a blank required column
func (ec *ErrorCollection) AddRequiredError(row int, column string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeImportRequiredField,
		Message: fmt.Sprintf("field '%s' is required", column)})
}

// AddTypeError records a value that does not parse as its column type
func (ec *ErrorCollection) AddTypeError(row int, column, expectedType, value string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeImportInvalidType,
		Message: fmt.Sprintf("expected %s", expectedType), Value: value})
}

// AddLengthError records a value outside its length bounds
func (ec *ErrorCollection) AddLengthError(row int, column string, minLen, maxLen int) {
	msg := fmt.Sprintf("length must be between %d and %d", minLen, maxLen)
	switch {
	case minLen == 0:
		msg = fmt.Sprintf("length must be at most %d", maxLen)
	case maxLen == 0:
		msg = fmt.Sprintf("length must be at least %d", minLen)
	}
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeImportInvalidLength, Message: msg})
}

// AddRangeError records a numeric value outside its bounds
func (ec *ErrorCollection) AddRangeError(row int, column, message string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeImportInvalidRange, Message: message})
}

// AddDuplicateError records a duplicated unique value, either earlier
// in the same file or already present in the database
func (ec *ErrorCollection) AddDuplicateError(row int, column, value string, inDB bool) {
	code := ErrCodeImportDuplicateInFile
	msg := fmt.Sprintf("duplicate value '%s' found in file", value)
	if inDB {
		code = ErrCodeImportDuplicateInDB
		msg = fmt.Sprintf("value '%s' already exists in database", value)
	}
	ec.Add(RowError{Row: row, Column: column, Code: code, Message: msg, Value: value})
}

// Errors returns the kept errors, at most maxErrors of them
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// Count returns how many errors were kept
func (ec *ErrorCollection) Count() int {
	return len(ec.errors)
}

// TotalCount returns how many errors occurred, kept or not
func (ec *ErrorCollection) TotalCount() int {
	return ec.total
}

// HasErrors reports whether anything failed
func (ec *ErrorCollection) HasErrors() bool {
	return ec.total > 0
}

// IsTruncated reports whether errors were dropped at the cap
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.total > ec.maxErrors
}
