// =============================================================================
// Cure Converter - Validation Module
// =============================================================================
//
// This module defines the error types raised while decoding tabular input and
// while constructing cure entities.
//
// ERROR TAXONOMY:
//   - DecodeError : a row's raw text could not be converted to the declared
//                   field type, or the row's field count does not match the
//                   schema. Any DecodeError aborts the whole read.
//   - FieldError  : an entity attribute failed a constructor check
//                   (empty name, negative price, negative shelf life).
//
// Unknown names in a projection allow-list are NOT errors and never reach
// this package.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULE NAMES
// =============================================================================

const (
	// RuleHeader marks a header row that does not match any schema.
	RuleHeader = "header"

	// RuleFieldCount marks a row with fewer or more cells than the header.
	RuleFieldCount = "field_count"

	// RuleDataType marks a cell whose text cannot be decoded to its kind.
	RuleDataType = "data_type"

	// RuleSyntax marks malformed delimited text (e.g. a broken quote).
	RuleSyntax = "syntax"
)

// =============================================================================
// DECODE ERROR
// =============================================================================

// DecodeError identifies the row and field that stopped a read.
type DecodeError struct {
	// Row is the 1-based data row number (the header is row 0).
	Row int

	// Field is the offending field name. Empty when the problem is not
	// attributable to one column (e.g. surplus cells).
	Field string

	// Value is the raw cell text, when there is one.
	Value string

	// Rule is one of the Rule* constants.
	Rule string

	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Row == 0 {
		b.WriteString("header")
	} else {
		fmt.Fprintf(&b, "row %d", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ", field '%s'", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// AsDecodeError unwraps err to a *DecodeError.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// =============================================================================
// FIELD ERROR
// =============================================================================

// FieldError reports an entity attribute that failed a constructor check.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Errors collects FieldErrors; a nil or empty Errors means valid.
type Errors []*FieldError

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Err returns nil when there are no errors, otherwise the collection.
func (es Errors) Err() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// =============================================================================
// CHECKS
// =============================================================================

// RequireText fails when value is blank.
func RequireText(es Errors, field, value string) Errors {
	if strings.TrimSpace(value) == "" {
		return append(es, &FieldError{Field: field, Message: "must not be empty"})
	}
	return es
}

// RequireNonNegativeDecimal fails when value < 0.
func RequireNonNegativeDecimal(es Errors, field string, value decimal.Decimal) Errors {
	if value.IsNegative() {
		return append(es, &FieldError{Field: field, Message: fmt.Sprintf("must not be negative (got %s)", value.String())})
	}
	return es
}

// RequireNonNegativeInt fails when value < 0.
func RequireNonNegativeInt(es Errors, field string, value int) Errors {
	if value < 0 {
		return append(es, &FieldError{Field: field, Message: fmt.Sprintf("must not be negative (got %d)", value)})
	}
	return es
}
