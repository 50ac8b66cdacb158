package converter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/cure-converter/internal/schema"
)

func sampleRecords() []schema.Record {
	return []schema.Record{
		schema.NewRecord(map[string]any{
			schema.FieldID:             "1",
			schema.FieldName:           "A",
			schema.FieldGroup:          "Analgesic",
			schema.FieldPrice:          decimal.RequireFromString("10.50"),
			schema.FieldShelfLife:      1,
			schema.FieldProductionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}),
		schema.NewRecord(map[string]any{
			schema.FieldID:             "2",
			schema.FieldName:           "B",
			schema.FieldGroup:          "",
			schema.FieldPrice:          decimal.RequireFromString("5"),
			schema.FieldShelfLife:      2,
			schema.FieldProductionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}),
	}
}

func TestProject_AllFields(t *testing.T) {
	header := []string{"CureName", "Price", "CureId", "Group", "ShelfLife", "ProductionDate"}
	s, err := schema.Cures.Bind(header)
	require.NoError(t, err)

	doc := Project(sampleRecords(), s, nil, DefaultProjectOptions())

	assert.Equal(t, "records", doc.RootElement)
	assert.Equal(t, "record", doc.RowElement)
	assert.Equal(t, "row", doc.IndexAttribute)
	require.Len(t, doc.Rows, 2)

	for i, row := range doc.Rows {
		assert.Equal(t, i+1, row.Index)
		assert.Equal(t, header, row.FieldNames())
	}

	first := doc.Rows[0].Fields
	assert.Equal(t, "A", first[0].Value)
	assert.Equal(t, "10.5", first[1].Value)
	assert.Equal(t, "1", first[2].Value)
	assert.Equal(t, "2024-01-01", first[5].Value)
	assert.Equal(t, "", doc.Rows[1].Fields[3].Value)
}

func TestProject_Include(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		want    []string
	}{
		{
			name:    "schema order wins over include order",
			include: []string{"Price", "CureName"},
			want:    []string{"CureName", "Price"},
		},
		{
			name:    "unknown names ignored",
			include: []string{"Price", "Country", "Nope"},
			want:    []string{"Price"},
		},
		{
			name:    "duplicates collapse",
			include: []string{"CureId", "CureId"},
			want:    []string{"CureId"},
		},
		{
			name:    "empty set projects nothing",
			include: []string{},
			want:    []string{},
		},
		{
			name:    "only unknown names",
			include: []string{"Country"},
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Project(sampleRecords(), schema.Cures, tt.include, DefaultProjectOptions())
			require.Len(t, doc.Rows, 2)
			for _, row := range doc.Rows {
				assert.Equal(t, tt.want, row.FieldNames())
			}
		})
	}
}

func TestProject_NoRecords(t *testing.T) {
	doc := Project(nil, schema.Cures, nil, ProjectOptions{RootElement: "cures", RowElement: "cure", IndexAttribute: "n"})

	assert.Empty(t, doc.Rows)
	assert.Equal(t, "cures", doc.RootElement)
	assert.Equal(t, "cure", doc.RowElement)
	assert.Equal(t, "n", doc.IndexAttribute)
}
