// =============================================================================
// Cure Converter - XLSX Parser Module
// =============================================================================
//
// This module reads cure exports saved as Excel workbooks. The first sheet is
// treated exactly like a delimited file: row 1 is the header, every following
// non-empty row is a data row. Rows are streamed from the workbook and decoded
// by the same csvparser.Reader, so schema detection, row numbering and
// fail-fast decode errors are identical for both input formats.
//
// EXPECTED LAYOUT (sheet 1):
//   | CureId | CureName | Group | Price | ShelfLife | ProductionDate |
//   | 1      | Aspirin  | ...   | 10.5  | 24        | 2024-01-01     |
//
// Cells are read as their formatted text, so date cells must be formatted
// with one of the configured date layouts (ISO by default).
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/cure-converter/internal/csvparser"
	"github.com/ginjaninja78/cure-converter/internal/schema"
)

// rowSource adapts an excelize row iterator to csvparser.RowSource.
//
// excelize drops trailing empty cells, so data rows are padded to the width
// of the header row, which is the first row with a non-blank cell. Rows wider
// than the header are passed through and rejected by the reader's field
// count check.
type rowSource struct {
	rows  *excelize.Rows
	width int
}

// Read returns the next row of the sheet, or io.EOF.
func (s *rowSource) Read() ([]string, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	columns, err := s.rows.Columns()
	if err != nil {
		return nil, err
	}

	if s.width == 0 {
		if !isBlank(columns) {
			s.width = len(columns)
		}
		return columns, nil
	}
	for len(columns) < s.width && len(columns) > 0 {
		columns = append(columns, "")
	}
	return columns, nil
}

// isBlank reports whether every cell is empty or whitespace.
func isBlank(columns []string) bool {
	for _, cell := range columns {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// closer releases both the row iterator and the workbook.
type closer struct {
	rows *excelize.Rows
	file *excelize.File
}

func (c *closer) Close() error {
	rowsErr := c.rows.Close()
	fileErr := c.file.Close()
	if rowsErr != nil {
		return rowsErr
	}
	return fileErr
}

// Open opens a workbook and returns a reader over its first sheet.
//
// PARAMETERS:
//   - filePath: path to the .xlsx file.
//   - dateLayouts: layouts accepted for date fields (nil for defaults).
//   - candidates: schemas to match the header against (nil for the registry).
func Open(filePath string, dateLayouts []string, candidates ...*schema.Schema) (*csvparser.Reader, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	reader, err := fromFile(f, dateLayouts, candidates)
	if err != nil {
		f.Close()
		return nil, err
	}
	return reader, nil
}

// NewReader reads a workbook from r.
func NewReader(r io.Reader, dateLayouts []string, candidates ...*schema.Schema) (*csvparser.Reader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	reader, err := fromFile(f, dateLayouts, candidates)
	if err != nil {
		f.Close()
		return nil, err
	}
	return reader, nil
}

func fromFile(f *excelize.File, dateLayouts []string, candidates []*schema.Schema) (*csvparser.Reader, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	reader, err := csvparser.NewRowReader(&rowSource{rows: rows}, dateLayouts, candidates...)
	if err != nil {
		rows.Close()
		return nil, err
	}

	return reader.WithCloser(&closer{rows: rows, file: f}), nil
}
