package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CanonicalDateLayout is the unambiguous calendar form used when a date is
// rendered as text.
const CanonicalDateLayout = "2006-01-02"

// DefaultDateLayouts returns the date layouts accepted when none are
// configured. ISO comes first so canonical text always decodes.
func DefaultDateLayouts() []string {
	return []string{
		CanonicalDateLayout,
		"2006/01/02",
		"02.01.2006",
		"01/02/2006",
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
}

// Decode converts raw cell text into the typed value for a field of the
// given kind:
//
//	KindString  -> string (as is)
//	KindDecimal -> decimal.Decimal
//	KindInteger -> int
//	KindDate    -> time.Time (UTC, truncated to the day)
func Decode(kind Kind, raw string, dateLayouts []string) (any, error) {
	switch kind {
	case KindDecimal:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid decimal number", raw)
		}
		return d, nil

	case KindInteger:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("value %q is not a valid integer", raw)
		}
		return n, nil

	case KindDate:
		return decodeDate(raw, dateLayouts)

	default:
		return raw, nil
	}
}

func decodeDate(raw string, layouts []string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts()
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("value %q is not a valid date", raw)
}

// Format renders a decoded value in its canonical textual form: decimals at
// full precision, integers without grouping, dates as YYYY-MM-DD.
func Format(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case decimal.Decimal:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case time.Time:
		return v.Format(CanonicalDateLayout)
	default:
		return fmt.Sprint(v)
	}
}

// =============================================================================
// RECORD
// =============================================================================

// Record is one decoded row: field name -> typed value. A Record is not
// modified after the reader hands it out.
type Record struct {
	values map[string]any
}

// NewRecord copies values into a new Record.
func NewRecord(values map[string]any) Record {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Record{values: copied}
}

// Get returns the typed value for a field.
func (r Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether the record carries the field.
func (r Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Len returns the number of fields in the record.
func (r Record) Len() int {
	return len(r.values)
}

// Text returns the canonical text of a field, or "" when absent.
func (r Record) Text(name string) string {
	return Format(r.values[name])
}

// String returns a string field.
func (r Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Decimal returns a decimal field.
func (r Record) Decimal(name string) decimal.Decimal {
	d, _ := r.values[name].(decimal.Decimal)
	return d
}

// Int returns an integer field.
func (r Record) Int(name string) int {
	n, _ := r.values[name].(int)
	return n
}

// Date returns a date field.
func (r Record) Date(name string) time.Time {
	t, _ := r.values[name].(time.Time)
	return t
}
