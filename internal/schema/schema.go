// =============================================================================
// Cure Converter - Schema Module
// =============================================================================
//
// This module declares the ordered set of named fields that make up a tabular
// cure file and how the raw text of each field is decoded into a typed value.
//
// The schema is an explicit table of fieldName -> kind. Both the tabular
// readers and the tree projector consult the same table, so a field name is
// never resolved against a Go struct at runtime.
//
// BUILT-IN SCHEMAS:
//   cures         : CureId, CureName, Group, Price, ShelfLife, ProductionDate
//   import_cures  : the fields above plus Country, CertificateNumber
//
// =============================================================================

package schema

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// FIELD KINDS
// =============================================================================

// Kind identifies how a field's raw text is decoded.
type Kind int

const (
	KindString Kind = iota
	KindDecimal
	KindInteger
	KindDate
)

// String returns the lowercase name of the kind, as used in error messages.
func (k Kind) String() string {
	switch k {
	case KindDecimal:
		return "decimal"
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	default:
		return "string"
	}
}

// =============================================================================
// SCHEMA STRUCTURE
// =============================================================================

// Field is one named column of the tabular format.
type Field struct {
	Name string
	Kind Kind
}

// Schema is the ordered field table for a tabular format.
type Schema struct {
	// Name identifies the schema in the registry ("cures", "import_cures").
	Name string

	// Fields in declared order. The order is the default projection order.
	Fields []Field

	// DateLayouts lists the time layouts accepted when decoding KindDate
	// fields, tried in order. The first layout is not required to be the
	// canonical one; rendering always uses CanonicalDateLayout.
	DateLayouts []string

	index map[string]int
}

// New builds a schema and checks that field names are unique and non-empty.
func New(name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		Name:        name,
		Fields:      append([]Field(nil), fields...),
		DateLayouts: DefaultDateLayouts(),
		index:       make(map[string]int, len(fields)),
	}

	for i, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("schema %s: field %d has an empty name", name, i+1)
		}
		if _, exists := s.index[f.Name]; exists {
			return nil, fmt.Errorf("schema %s: duplicate field %q", name, f.Name)
		}
		s.index[f.Name] = i
	}

	return s, nil
}

// MustNew is New for package-level schema tables; it panics on a bad table.
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.Fields)
}

// Names returns the field names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Lookup returns the field with the given name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Has reports whether the schema declares a field with the given name.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// WithDateLayouts returns a copy of the schema accepting the given date
// layouts. An empty list keeps the current layouts.
func (s *Schema) WithDateLayouts(layouts []string) *Schema {
	out := s.clone()
	if len(layouts) > 0 {
		out.DateLayouts = append([]string(nil), layouts...)
	}
	return out
}

// Bind returns a copy of the schema whose field order follows the given
// header. The header must name every schema field exactly once and nothing
// else; the returned error lists the offending columns.
func (s *Schema) Bind(header []string) (*Schema, error) {
	if missing, unknown := s.diff(header); len(missing) > 0 || len(unknown) > 0 {
		var parts []string
		if len(missing) > 0 {
			parts = append(parts, "missing "+strings.Join(missing, ", "))
		}
		if len(unknown) > 0 {
			parts = append(parts, "unknown "+strings.Join(unknown, ", "))
		}
		return nil, fmt.Errorf("header does not match schema %s: %s", s.Name, strings.Join(parts, "; "))
	}

	fields := make([]Field, len(header))
	for i, name := range header {
		f, _ := s.Lookup(name)
		fields[i] = f
	}

	bound, err := New(s.Name, fields...)
	if err != nil {
		return nil, err
	}
	bound.DateLayouts = append([]string(nil), s.DateLayouts...)
	return bound, nil
}

// diff compares a header against the schema.
func (s *Schema) diff(header []string) (missing, unknown []string) {
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		if !s.Has(name) || seen[name] {
			unknown = append(unknown, name)
			continue
		}
		seen[name] = true
	}
	for _, f := range s.Fields {
		if !seen[f.Name] {
			missing = append(missing, f.Name)
		}
	}
	return missing, unknown
}

func (s *Schema) clone() *Schema {
	out := &Schema{
		Name:        s.Name,
		Fields:      append([]Field(nil), s.Fields...),
		DateLayouts: append([]string(nil), s.DateLayouts...),
		index:       make(map[string]int, len(s.index)),
	}
	for k, v := range s.index {
		out.index[k] = v
	}
	return out
}

// =============================================================================
// REGISTRY
// =============================================================================

// Field names of the cure file format.
const (
	FieldID                = "CureId"
	FieldName              = "CureName"
	FieldGroup             = "Group"
	FieldPrice             = "Price"
	FieldShelfLife         = "ShelfLife"
	FieldProductionDate    = "ProductionDate"
	FieldCountry           = "Country"
	FieldCertificateNumber = "CertificateNumber"
)

var cureFields = []Field{
	{Name: FieldID, Kind: KindString},
	{Name: FieldName, Kind: KindString},
	{Name: FieldGroup, Kind: KindString},
	{Name: FieldPrice, Kind: KindDecimal},
	{Name: FieldShelfLife, Kind: KindInteger},
	{Name: FieldProductionDate, Kind: KindDate},
}

// Cures is the plain cure export layout.
var Cures = MustNew("cures", cureFields...)

// ImportCures is the layout for imported cures.
var ImportCures = MustNew("import_cures", append(append([]Field(nil), cureFields...),
	Field{Name: FieldCountry, Kind: KindString},
	Field{Name: FieldCertificateNumber, Kind: KindString},
)...)

// Registry returns the built-in schemas.
func Registry() []*Schema {
	return []*Schema{Cures, ImportCures}
}

// Detect picks the schema whose field set equals the header's and binds it
// to header order. When no schema matches, the error reports the closest
// candidate (fewest mismatched columns).
func Detect(header []string, candidates ...*Schema) (*Schema, error) {
	if len(candidates) == 0 {
		candidates = Registry()
	}

	type scored struct {
		schema *Schema
		score  int
	}
	ranked := make([]scored, 0, len(candidates))

	for _, s := range candidates {
		missing, unknown := s.diff(header)
		if len(missing) == 0 && len(unknown) == 0 {
			return s.Bind(header)
		}
		ranked = append(ranked, scored{schema: s, score: len(missing) + len(unknown)})
	}

	if len(ranked) == 0 {
		return nil, fmt.Errorf("no schema registered")
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score < ranked[j].score })
	_, err := ranked[0].schema.Bind(header)
	return nil, err
}
