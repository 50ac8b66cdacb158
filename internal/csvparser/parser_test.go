package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/ginjaninja78/cure-converter/internal/config"
	"github.com/ginjaninja78/cure-converter/internal/validation"
)

const header = "CureId,CureName,Group,Price,ShelfLife,ProductionDate\n"

func defaultSettings() config.CSVSettings {
	return config.Default().CSV
}

func TestReader_DecodesRowsInFileOrder(t *testing.T) {
	input := header +
		"1,Aspirin,Analgesic,10.50,24,2024-01-01\n" +
		"\n" +
		"2, Ibuprofen ,Analgesic,5,12,2024-03-15\n"

	reader, err := NewReader(strings.NewReader(input), defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "cures", reader.Schema().Name)

	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Aspirin", records[0].String("CureName"))
	assert.Equal(t, "10.5", records[0].Decimal("Price").String())
	assert.Equal(t, 24, records[0].Int("ShelfLife"))
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), records[0].Date("ProductionDate"))

	assert.Equal(t, "Ibuprofen", records[1].String("CureName"))
	assert.Equal(t, 2, reader.RowNumber())
}

func TestReader_BindsSchemaToHeaderOrder(t *testing.T) {
	input := "Price,CureName,CureId,ProductionDate,Group,ShelfLife\n" +
		"3.20,Citramon,7,2023-05-05,Analgesic,36\n"

	reader, err := NewReader(strings.NewReader(input), defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, []string{"Price", "CureName", "CureId", "ProductionDate", "Group", "ShelfLife"}, reader.Schema().Names())

	require.True(t, reader.Next())
	assert.Equal(t, "3.2", reader.Record().Text("Price"))
}

func TestReader_DetectsImportSchema(t *testing.T) {
	input := strings.TrimSuffix(header, "\n") + ",Country,CertificateNumber\n" +
		"9,Nurofen,Analgesic,120,36,2024-02-01,Germany,DE-77\n"

	reader, err := NewReader(strings.NewReader(input), defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "import_cures", reader.Schema().Name)

	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Germany", records[0].String("Country"))
}

func TestReader_FailFast(t *testing.T) {
	tests := []struct {
		name      string
		rows      string
		wantRow   int
		wantField string
		wantRule  string
	}{
		{
			name:      "non numeric price on row 2",
			rows:      "1,A,G,10,1,2024-01-01\n2,B,G,abc,2,2024-01-01\n3,C,G,7,3,2024-01-01\n",
			wantRow:   2,
			wantField: "Price",
			wantRule:  validation.RuleDataType,
		},
		{
			name:      "bad date on row 1",
			rows:      "1,A,G,10,1,someday\n",
			wantRow:   1,
			wantField: "ProductionDate",
			wantRule:  validation.RuleDataType,
		},
		{
			name:      "missing cells",
			rows:      "1,A,G,10,1,2024-01-01\n2,B,G\n",
			wantRow:   2,
			wantField: "Price",
			wantRule:  validation.RuleFieldCount,
		},
		{
			name:     "surplus cells",
			rows:     "1,A,G,10,1,2024-01-01,extra\n",
			wantRow:  1,
			wantRule: validation.RuleFieldCount,
		},
		{
			name:     "broken quote",
			rows:     "1,\"A,G,10,1,2024-01-01\n",
			wantRow:  1,
			wantRule: validation.RuleSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewReader(strings.NewReader(header+tt.rows), defaultSettings())
			require.NoError(t, err)

			records, err := reader.ReadAll()
			require.Error(t, err)
			assert.Nil(t, records)

			de, ok := validation.AsDecodeError(err)
			require.True(t, ok, "expected DecodeError, got %T: %v", err, err)
			assert.Equal(t, tt.wantRow, de.Row)
			assert.Equal(t, tt.wantField, de.Field)
			assert.Equal(t, tt.wantRule, de.Rule)

			// the reader stays stopped
			assert.False(t, reader.Next())
		})
	}
}

func TestReader_HeaderErrors(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), defaultSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file is empty")

	_, err = NewReader(strings.NewReader("CureId,CureName,Colour\n1,A,red\n"), defaultSettings())
	require.Error(t, err)
	de, ok := validation.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, 0, de.Row)
	assert.Equal(t, validation.RuleHeader, de.Rule)
	assert.Contains(t, err.Error(), "unknown Colour")
}

func TestReader_DelimiterAndEncoding(t *testing.T) {
	text := "CureId;CureName;Group;Price;ShelfLife;ProductionDate\n" +
		"1;Аспірин;Знеболювальні;10.5;24;01.02.2024\n"

	encoded, err := charmap.Windows1251.NewEncoder().String(text)
	require.NoError(t, err)

	settings := defaultSettings()
	settings.Delimiter = "semicolon"
	settings.Encoding = "windows-1251"
	settings.DateLayouts = []string{"02.01.2006"}

	reader, err := NewReader(strings.NewReader(encoded), settings)
	require.NoError(t, err)

	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Аспірин", records[0].String("CureName"))
	assert.Equal(t, "2024-02-01", records[0].Text("ProductionDate"))
}

func TestReader_StripsUTF8BOM(t *testing.T) {
	input := "\xEF\xBB\xBF" + header + "1,A,G,1,1,2024-01-01\n"

	reader, err := NewReader(strings.NewReader(input), defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "CureId", reader.Header()[0])
}

func TestReader_UnknownEncoding(t *testing.T) {
	settings := defaultSettings()
	settings.Encoding = "klingon"

	_, err := NewReader(strings.NewReader(header), settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported encoding")
}

func TestOpen(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.csv"), defaultSettings())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")

	path := filepath.Join(t.TempDir(), "cures.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+"1,A,G,1,1,2024-01-01\n"), 0o644))

	reader, err := Open(path, defaultSettings())
	require.NoError(t, err)
	defer reader.Close()

	records, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
