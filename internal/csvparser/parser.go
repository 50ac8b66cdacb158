// =============================================================================
// Cure Converter - CSV Parser Module
// =============================================================================
//
// This module reads header-first delimited files and decodes every row
// against a schema.
//
// FEATURES:
//   - Header-driven: the first row names the columns; the schema whose field
//     set equals the header is selected and bound to header order
//   - Streaming: one row is read and decoded per Next() call
//   - Fail-fast: the first row that cannot be decoded stops the read with a
//     validation.DecodeError naming the row and field
//   - Input text encodings via golang.org/x/text (UTF-8 BOM is stripped)
//
// USAGE:
//   reader, err := csvparser.Open(path, settings)
//   if err != nil {
//       return err
//   }
//   defer reader.Close()
//
//   for reader.Next() {
//       record := reader.Record()
//       // ...
//   }
//   if err := reader.Err(); err != nil {
//       return err
//   }
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/cure-converter/internal/config"
	"github.com/ginjaninja78/cure-converter/internal/schema"
	"github.com/ginjaninja78/cure-converter/internal/validation"
)

// =============================================================================
// ROW SOURCE
// =============================================================================

// RowSource yields raw rows one at a time and returns io.EOF when exhausted.
// *csv.Reader satisfies it; the XLSX reader provides another implementation.
type RowSource interface {
	Read() ([]string, error)
}

// =============================================================================
// READER
// =============================================================================

// Reader decodes rows from a RowSource into schema records.
type Reader struct {
	source RowSource
	closer io.Closer
	schema *schema.Schema
	header []string

	record    schema.Record
	rowNumber int
	err       error
}

// Open opens a delimited file and reads its header.
func Open(filePath string, settings config.CSVSettings, candidates ...*schema.Schema) (*Reader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, err := NewReader(file, settings, candidates...)
	if err != nil {
		file.Close()
		return nil, err
	}
	reader.closer = file

	return reader, nil
}

// NewReader wraps r in a CSV reader configured from settings and reads the
// header. The caller keeps ownership of r.
func NewReader(r io.Reader, settings config.CSVSettings, candidates ...*schema.Schema) (*Reader, error) {
	decoded, err := decodeInput(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(bufio.NewReader(decoded))
	if err := configureReader(csvReader, settings); err != nil {
		return nil, err
	}

	return NewRowReader(csvReader, settings.DateLayouts, candidates...)
}

// NewRowReader reads the header from src, selects the matching schema and
// returns a Reader positioned before the first data row.
func NewRowReader(src RowSource, dateLayouts []string, candidates ...*schema.Schema) (*Reader, error) {
	p := &Reader{source: src}

	if err := p.readHeader(dateLayouts, candidates); err != nil {
		return nil, err
	}

	return p, nil
}

// configureReader applies the delimiter and the leniency options.
func configureReader(reader *csv.Reader, settings config.CSVSettings) error {
	comma, err := settings.Comma()
	if err != nil {
		return err
	}
	reader.Comma = comma

	// Field counts are checked against the schema per row, so the csv
	// package must not reject short or long rows on its own.
	reader.FieldsPerRecord = -1

	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	return nil
}

// decodeInput converts the input to UTF-8 according to the encoding name.
func decodeInput(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}

	// BOMOverride strips a UTF-8 (or UTF-16) byte order mark and otherwise
	// falls back to the configured decoder.
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return enc, nil
}

// readHeader reads the first row and binds the schema to it.
func (p *Reader) readHeader(dateLayouts []string, candidates []*schema.Schema) error {
	row, err := p.nextNonEmpty()
	if err == io.EOF {
		return &validation.DecodeError{Rule: validation.RuleHeader, Message: "file is empty"}
	}
	if err != nil {
		return p.sourceError(err, 0)
	}

	header := cleanHeaders(row)

	bound, err := schema.Detect(header, candidates...)
	if err != nil {
		return &validation.DecodeError{Rule: validation.RuleHeader, Message: err.Error()}
	}

	p.header = header
	p.schema = bound.WithDateLayouts(dateLayouts)
	return nil
}

// cleanHeaders trims whitespace around column names.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// Next decodes the next row. It returns false at the end of input or on the
// first error; Err distinguishes the two. After an error Next keeps
// returning false.
func (p *Reader) Next() bool {
	if p.err != nil {
		return false
	}

	row, err := p.nextNonEmpty()
	if err == io.EOF {
		return false
	}

	p.rowNumber++

	if err != nil {
		p.err = p.sourceError(err, p.rowNumber)
		return false
	}

	record, err := p.decodeRow(row)
	if err != nil {
		p.err = err
		return false
	}

	p.record = record
	return true
}

// nextNonEmpty skips rows whose cells are all blank.
func (p *Reader) nextNonEmpty() ([]string, error) {
	for {
		row, err := p.source.Read()
		if err != nil {
			return nil, err
		}
		if !isRowEmpty(row) {
			return row, nil
		}
	}
}

// decodeRow converts one raw row into a Record.
func (p *Reader) decodeRow(row []string) (schema.Record, error) {
	if len(row) != len(p.header) {
		de := &validation.DecodeError{
			Row:     p.rowNumber,
			Rule:    validation.RuleFieldCount,
			Message: fmt.Sprintf("expected %d fields, got %d", len(p.header), len(row)),
		}
		if len(row) < len(p.header) {
			de.Field = p.header[len(row)]
		}
		return schema.Record{}, de
	}

	values := make(map[string]any, len(row))
	for i, field := range p.schema.Fields {
		raw := strings.TrimSpace(row[i])

		value, err := schema.Decode(field.Kind, raw, p.schema.DateLayouts)
		if err != nil {
			return schema.Record{}, &validation.DecodeError{
				Row:     p.rowNumber,
				Field:   field.Name,
				Value:   raw,
				Rule:    validation.RuleDataType,
				Message: err.Error(),
			}
		}
		values[field.Name] = value
	}

	return schema.NewRecord(values), nil
}

// sourceError maps a RowSource failure to a DecodeError when it is a syntax
// problem, and wraps it as an IO error otherwise.
func (p *Reader) sourceError(err error, row int) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &validation.DecodeError{
			Row:     row,
			Rule:    validation.RuleSyntax,
			Message: parseErr.Err.Error(),
		}
	}
	return fmt.Errorf("failed to read row %d: %w", row, err)
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Record returns the record decoded by the last successful Next.
func (p *Reader) Record() schema.Record {
	return p.record
}

// Schema returns the schema bound to the file's header order.
func (p *Reader) Schema() *schema.Schema {
	return p.schema
}

// Header returns the header row.
func (p *Reader) Header() []string {
	return p.header
}

// RowNumber returns the 1-based number of the last row read.
func (p *Reader) RowNumber() int {
	return p.rowNumber
}

// Err returns the error that stopped the read, if any.
func (p *Reader) Err() error {
	return p.err
}

// WithCloser makes Close release c. Used by readers built on sources that
// own a file handle.
func (p *Reader) WithCloser(c io.Closer) *Reader {
	p.closer = c
	return p
}

// Close closes the underlying file when the Reader opened it.
func (p *Reader) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// ReadAll drains the reader. On error no records are returned.
func (p *Reader) ReadAll() ([]schema.Record, error) {
	var records []schema.Record
	for p.Next() {
		records = append(records, p.Record())
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
