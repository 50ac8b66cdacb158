// =============================================================================
// Cure Converter - Shared Types
// =============================================================================
//
// This package contains the in-memory document produced by the projector and
// consumed by the XML writer. It lives on its own to avoid an import cycle
// between converter and xmlwriter.
//
// DOCUMENT SHAPE:
//   <records>                    <!-- Document.RootElement -->
//     <record row="1">           <!-- Document.RowElement, IndexAttribute -->
//       <CureName>Aspirin</CureName>
//       <Price>10.5</Price>
//     </record>
//   </records>
//
// =============================================================================

package types

// Document is the hierarchical result of a projection, prior to serialization.
type Document struct {
	// RootElement is the name of the element wrapping every row.
	RootElement string

	// RowElement is the name of the element emitted per input row.
	RowElement string

	// IndexAttribute is the attribute carrying Row.Index.
	IndexAttribute string

	// Rows in input order.
	Rows []Row
}

// Row is one projected input row.
type Row struct {
	// Index is the 1-based input row number.
	Index int

	// Fields are the projected fields in schema order.
	Fields []Field
}

// Field is a leaf node: element name and canonical text content.
type Field struct {
	Name  string
	Value string
}

// FieldNames returns the names of the row's fields in order.
func (r Row) FieldNames() []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}
