// =============================================================================
// Cure Converter - XML Writer Module
// =============================================================================
//
// This module serializes a projected document to XML. The mapping is purely
// structural: every node of the document becomes one element, in the order
// it was built.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <records>                              <!-- Root element -->
//     <record row="1">                     <!-- Row element with 1-based index -->
//       <CureName>Aspirin</CureName>       <!-- One element per projected field -->
//       <Price>10.5</Price>
//     </record>
//     <record row="2">
//       <CureName>Ibuprofen</CureName>
//       <Price>5</Price>
//     </record>
//   </records>
//
// ERRORS:
//   Invalid element or attribute names are rejected before any byte is
//   written (and before WriteFile creates its file). Write errors from the
//   destination are returned, never swallowed. A WriteFile that fails
//   mid-write may leave a partial file behind; the caller decides whether to
//   remove it.
//
// TEXT:
//   Field values are escaped with encoding/xml. Characters XML 1.0 does not
//   allow (control characters other than tab, newline and carriage return)
//   are replaced with U+FFFD, so any decoded cell yields a parseable document.
//
// =============================================================================

package xmlwriter

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode"

	"github.com/ginjaninja78/cure-converter/internal/types"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls formatting.
type Options struct {
	// Indent is the string used for one level of indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration writes the <?xml ...?> prolog.
	// Default: true
	IncludeXMLDeclaration bool
}

// DefaultOptions returns the default formatting options.
func DefaultOptions() Options {
	return Options{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
	}
}

// =============================================================================
// WRITING
// =============================================================================

// Write serializes doc to w.
func Write(w io.Writer, doc *types.Document, opts Options) error {
	if err := checkNames(doc); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	if opts.IncludeXMLDeclaration {
		bw.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	}

	bw.WriteString("<" + doc.RootElement + ">\n")
	for _, row := range doc.Rows {
		writeRow(bw, doc, row, opts.Indent)
	}
	bw.WriteString("</" + doc.RootElement + ">\n")

	// bufio.Writer keeps the first write error and reports it on Flush.
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// Marshal returns the serialized document.
func Marshal(doc *types.Document, opts Options) ([]byte, error) {
	var buffer bytes.Buffer
	if err := Write(&buffer, doc, opts); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// WriteFile creates (or truncates) path and writes doc to it.
func WriteFile(path string, doc *types.Document, opts Options) error {
	if err := checkNames(doc); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(file, doc, opts); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// writeRow writes a row element and its field leaves.
//
// STRUCTURE:
//   <record row="1">
//     <CureId>1</CureId>
//     <Group/>               <!-- empty values self-close -->
//   </record>
func writeRow(bw *bufio.Writer, doc *types.Document, row types.Row, indent string) {
	bw.WriteString(indent)
	bw.WriteString("<" + doc.RowElement)
	bw.WriteString(" " + doc.IndexAttribute + "=\"" + strconv.Itoa(row.Index) + "\"")

	if len(row.Fields) == 0 {
		bw.WriteString("/>\n")
		return
	}
	bw.WriteString(">\n")

	for _, field := range row.Fields {
		bw.WriteString(indent)
		bw.WriteString(indent)
		if field.Value == "" {
			bw.WriteString("<" + field.Name + "/>\n")
			continue
		}
		bw.WriteString("<" + field.Name + ">")
		bw.WriteString(escapeXML(field.Value))
		bw.WriteString("</" + field.Name + ">\n")
	}

	bw.WriteString(indent)
	bw.WriteString("</" + doc.RowElement + ">\n")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// escapeXML escapes special characters for XML text content.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	// bytes.Buffer never returns a write error.
	_ = xml.EscapeText(&buffer, []byte(s))
	return buffer.String()
}

// checkNames rejects element or attribute names that would produce
// malformed XML. Nothing is written when a name is invalid.
func checkNames(doc *types.Document) error {
	names := []string{doc.RootElement, doc.RowElement, doc.IndexAttribute}
	for _, row := range doc.Rows {
		for _, f := range row.Fields {
			names = append(names, f.Name)
		}
	}

	for _, name := range names {
		if !IsXMLName(name) {
			return fmt.Errorf("invalid XML name %q", name)
		}
	}
	return nil
}

// IsXMLName reports whether name can be used as an element or attribute
// name. It accepts a practical subset of the XML Name production: a letter
// or underscore followed by letters, digits, '_', '-' or '.'.
func IsXMLName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
