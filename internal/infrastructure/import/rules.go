package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldType names the expected type of a column value
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeBool    FieldType = "bool"
	TypeDate    FieldType = "date"
)

// defaultDateFormat is ISO 8601 date-only
const defaultDateFormat = "2006-01-02"

// FieldRule is the validation contract for one column
type FieldRule struct {
	Column     string
	Type       FieldType
	Required   bool
	MinLength  int
	MaxLength  int
	MinValue   *decimal.Decimal
	MaxValue   *decimal.Decimal
	DateFormat string
}

// FieldRuleBuilder assembles a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for the named column, string-typed by default
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{
		Column:     column,
		Type:       TypeString,
		DateFormat: defaultDateFormat,
	}}
}

// Required rejects blank values in this column
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// String expects free text
func (b *FieldRuleBuilder) String() *FieldRuleBuilder {
	b.rule.Type = TypeString
	return b
}

// Int expects a base-10 integer
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal expects an exact decimal number
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Bool expects a true/false flag in any common spelling
func (b *FieldRuleBuilder) Bool() *FieldRuleBuilder {
	b.rule.Type = TypeBool
	return b
}

// Date expects a date, ISO 8601 unless DateFormat overrides it
func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeDate
	return b
}

// DateFormat overrides the expected date layout
func (b *FieldRuleBuilder) DateFormat(layout string) *FieldRuleBuilder {
	b.rule.DateFormat = layout
	return b
}

// MinLength sets the minimum value length in bytes
func (b *FieldRuleBuilder) MinLength(n int) *FieldRuleBuilder {
	b.rule.MinLength = n
	return b
}

// MaxLength sets the maximum value length in bytes
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// MinValue sets the minimum for numeric columns
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// MaxValue sets the maximum for numeric columns
func (b *FieldRuleBuilder) MaxValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MaxValue = &v
	return b
}

// Build returns the assembled rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator checks rows against a rule set, collecting per-row
// errors instead of stopping at the first failure
type FieldValidator struct {
	rules  []FieldRule
	errors *ErrorCollection
}

// NewFieldValidator creates a validator that reports at most maxErrors
func NewFieldValidator(rules []FieldRule, maxErrors int) *FieldValidator {
	return &FieldValidator{
		rules:  rules,
		errors: NewErrorCollection(maxErrors),
	}
}

// ValidateRow checks every rule against the row and reports whether
// the row passed. Failures are recorded in the error collection.
func (v *FieldValidator) ValidateRow(row *Row) bool {
	ok := true
	for _, rule := range v.rules {
		value := row.Get(rule.Column)

		if value == "" {
			if rule.Required {
				v.errors.AddRequiredError(row.LineNumber, rule.Column)
				ok = false
			}
			// optional columns are free to stay blank
			continue
		}

		if err := checkType(value, rule.Type, rule.DateFormat); err != nil {
			v.errors.AddTypeError(row.LineNumber, rule.Column, string(rule.Type), value)
			ok = false
			continue
		}

		if rule.MinLength > 0 && len(value) < rule.MinLength ||
			rule.MaxLength > 0 && len(value) > rule.MaxLength {
			v.errors.AddLengthError(row.LineNumber, rule.Column, rule.MinLength, rule.MaxLength)
			ok = false
		}

		if rule.Type == TypeInt || rule.Type == TypeDecimal {
			if err := checkRange(value, rule.MinValue, rule.MaxValue); err != nil {
				v.errors.AddRangeError(row.LineNumber, rule.Column, err.Error())
				ok = false
			}
		}
	}
	return ok
}

// Errors returns the collected validation errors
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}

func checkType(value string, t FieldType, dateFormat string) error {
	switch t {
	case TypeInt:
		_, err := strconv.ParseInt(value, 10, 64)
		return err
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err
	case TypeBool:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no", "y", "n":
			return nil
		}
		return fmt.Errorf("invalid boolean value: %s", value)
	case TypeDate:
		_, err := time.Parse(dateFormat, value)
		return err
	}
	return nil
}

func checkRange(value string, min, max *decimal.Decimal) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}
	if min != nil && d.LessThan(*min) {
		return fmt.Errorf("value %s is below the minimum %s", value, min.String())
	}
	if max != nil && d.GreaterThan(*max) {
		return fmt.Errorf("value %s is above the maximum %s", value, max.String())
	}
	return nil
}
