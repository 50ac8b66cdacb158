// =============================================================================
// Cure Converter - XSD Generation
// =============================================================================
//
// This file generates an XML Schema Definition describing the documents the
// writer produces for a given field selection. The XSD can be handed to
// downstream consumers to validate converted files.
//
// XSD SHAPE:
//   <xs:element name="records">                  <!-- root element -->
//     <xs:sequence>
//       <xs:element ref="record" .../>           <!-- zero or more rows -->
//   <xs:element name="record">                   <!-- row element -->
//     <xs:sequence>
//       <xs:element name="CureName" type="xs:string" minOccurs="1"/>
//     <xs:attribute name="row" type="xs:positiveInteger" use="required"/>
//
// TYPE MAPPING:
//   string  -> xs:string
//   decimal -> xs:decimal
//   integer -> xs:integer
//   date    -> xs:date
//
// Every selected field is written for every row (empty values self-close), so
// field elements are required. An empty string field is valid xs:string; an
// empty typed field cannot occur because decoding rejects it.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ginjaninja78/cure-converter/internal/schema"
)

// XSDLayout names the elements of a document and the fields each row carries.
type XSDLayout struct {
	RootElement    string
	RowElement     string
	IndexAttribute string

	// Fields in output order.
	Fields []schema.Field
}

// =============================================================================
// XSD GENERATION
// =============================================================================

// GenerateXSD generates an XSD schema describing documents with the layout.
//
// PARAMETERS:
//   - layout: The element names and the projected fields.
//
// RETURNS:
//   - The XSD document as bytes.
//   - An error if an element or attribute name is not a valid XML name.
func GenerateXSD(layout XSDLayout) ([]byte, error) {
	names := []string{layout.RootElement, layout.RowElement, layout.IndexAttribute}
	for _, f := range layout.Fields {
		names = append(names, f.Name)
	}
	for _, name := range names {
		if !IsXMLName(name) {
			return nil, fmt.Errorf("invalid XML name %q", name)
		}
	}

	var buffer bytes.Buffer

	// Write XSD header.
	buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
`)

	// Write root element definition.
	buffer.WriteString(fmt.Sprintf(`  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
        <xs:element ref="%s" minOccurs="0" maxOccurs="unbounded"/>
      </xs:sequence>
    </xs:complexType>
  </xs:element>

`, layout.RootElement, layout.RowElement))

	// Write row element definition.
	buffer.WriteString(fmt.Sprintf(`  <xs:element name="%s">
    <xs:complexType>
      <xs:sequence>
`, layout.RowElement))

	for _, field := range layout.Fields {
		writeXSDElement(&buffer, field, 4)
	}

	buffer.WriteString(fmt.Sprintf(`      </xs:sequence>
      <xs:attribute name="%s" type="xs:positiveInteger" use="required"/>
    </xs:complexType>
  </xs:element>

</xs:schema>
`, layout.IndexAttribute))

	return buffer.Bytes(), nil
}

// WriteXSDFile generates the XSD for layout and writes it to path.
// Nothing is created when the layout is invalid.
func WriteXSDFile(path string, layout XSDLayout) error {
	data, err := GenerateXSD(layout)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	return nil
}

// writeXSDElement writes an XSD element definition.
func writeXSDElement(buffer *bytes.Buffer, field schema.Field, indentLevel int) {
	indent := strings.Repeat("  ", indentLevel)

	buffer.WriteString(fmt.Sprintf(`%s<xs:element name="%s" type="%s" minOccurs="1"/>
`, indent, field.Name, getXSDType(field.Kind)))
}

// getXSDType maps field kinds to XSD types.
func getXSDType(kind schema.Kind) string {
	switch kind {
	case schema.KindInteger:
		return "xs:integer"
	case schema.KindDecimal:
		return "xs:decimal"
	case schema.KindDate:
		return "xs:date"
	default:
		return "xs:string"
	}
}
