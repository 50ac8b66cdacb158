package xlsxparser

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/cure-converter/internal/validation"
)

func writeWorkbook(t *testing.T, rows ...[]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	return f
}

func TestOpen_ReadsFirstSheet(t *testing.T) {
	f := writeWorkbook(t,
		[]interface{}{"CureId", "CureName", "Group", "Price", "ShelfLife", "ProductionDate", "Country", "CertificateNumber"},
		[]interface{}{"1", "Nurofen", "Analgesic", "120.5", 36, "2024-02-01", "Germany", "DE-77"},
		[]interface{}{"2", "Mezym", "Enzyme", "80", 24, "2023-11-30", "Germany"},
	)
	path := filepath.Join(t.TempDir(), "cures.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	reader, err := Open(path, nil)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "import_cures", reader.Schema().Name)

	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Nurofen", records[0].String("CureName"))
	assert.Equal(t, "120.5", records[0].Text("Price"))
	assert.Equal(t, 36, records[0].Int("ShelfLife"))
	assert.Equal(t, "2024-02-01", records[0].Text("ProductionDate"))

	// trailing empty cell is padded, not a field count error
	assert.Equal(t, "", records[1].String("CertificateNumber"))
}

func TestOpen_BlankLeadingRowDoesNotSetWidth(t *testing.T) {
	f := writeWorkbook(t,
		[]interface{}{" ", " ", " ", " ", " ", " ", " ", " ", " ", " "},
		[]interface{}{"CureId", "CureName", "Group", "Price", "ShelfLife", "ProductionDate", "Country", "CertificateNumber"},
		[]interface{}{"2", "Mezym", "Enzyme", "80", 24, "2023-11-30", "Germany"},
	)
	path := filepath.Join(t.TempDir(), "cures.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	reader, err := Open(path, nil)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "import_cures", reader.Schema().Name)

	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Germany", records[0].String("Country"))
	assert.Equal(t, "", records[0].String("CertificateNumber"))
}

func TestNewReader_DecodeErrorNamesRowAndField(t *testing.T) {
	f := writeWorkbook(t,
		[]interface{}{"CureId", "CureName", "Group", "Price", "ShelfLife", "ProductionDate"},
		[]interface{}{"1", "Aspirin", "Analgesic", "10", 12, "2024-01-01"},
		[]interface{}{"2", "Broken", "Analgesic", "ten", 12, "2024-01-01"},
	)
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	reader, err := NewReader(&buf, nil)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.ReadAll()
	require.Error(t, err)
	de, ok := validation.AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, 2, de.Row)
	assert.Equal(t, "Price", de.Field)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open workbook")
}
