package converter

import (
	"github.com/ginjaninja78/cure-converter/internal/schema"
	"github.com/ginjaninja78/cure-converter/internal/types"
)

// ProjectOptions names the document's structural elements.
type ProjectOptions struct {
	RootElement    string
	RowElement     string
	IndexAttribute string
}

// DefaultProjectOptions returns the element names used when none are
// configured.
func DefaultProjectOptions() ProjectOptions {
	return ProjectOptions{
		RootElement:    "records",
		RowElement:     "record",
		IndexAttribute: "row",
	}
}

// Project builds a document with one row node per record, numbered from 1 in
// input order, and one leaf per projected field.
//
// Fields are emitted in schema order. A nil include projects every field;
// otherwise a field is projected iff its name is in include. Names in
// include that the schema does not declare are ignored.
func Project(records []schema.Record, s *schema.Schema, include []string, opts ProjectOptions) *types.Document {
	fields := selectFields(s, include)

	doc := &types.Document{
		RootElement:    opts.RootElement,
		RowElement:     opts.RowElement,
		IndexAttribute: opts.IndexAttribute,
		Rows:           make([]types.Row, 0, len(records)),
	}

	for i, record := range records {
		doc.Rows = append(doc.Rows, projectRow(i+1, record, fields))
	}

	return doc
}

// selectFields returns the schema fields to emit, in schema order.
func selectFields(s *schema.Schema, include []string) []schema.Field {
	if include == nil {
		return s.Fields
	}

	wanted := make(map[string]bool, len(include))
	for _, name := range include {
		wanted[name] = true
	}

	selected := make([]schema.Field, 0, len(include))
	for _, f := range s.Fields {
		if wanted[f.Name] {
			selected = append(selected, f)
		}
	}
	return selected
}

func projectRow(index int, record schema.Record, fields []schema.Field) types.Row {
	row := types.Row{
		Index:  index,
		Fields: make([]types.Field, len(fields)),
	}
	for i, f := range fields {
		row.Fields[i] = types.Field{Name: f.Name, Value: record.Text(f.Name)}
	}
	return row
}
