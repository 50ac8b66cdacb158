package cure

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/cure-converter/internal/validation"
)

// ImportCure is a Cure produced abroad.
type ImportCure struct {
	Cure

	country           string
	certificateNumber string
}

// NewImport validates a and the import attributes and returns an ImportCure.
// The certificate number may be empty; the country may not.
func NewImport(a Attributes, country, certificateNumber string) (*ImportCure, error) {
	es := validation.RequireText(check(a), "country", country)
	if err := es.Err(); err != nil {
		return nil, err
	}

	return &ImportCure{
		Cure:              *newCure(a),
		country:           country,
		certificateNumber: certificateNumber,
	}, nil
}

func (c *ImportCure) Country() string           { return c.country }
func (c *ImportCure) CertificateNumber() string { return c.certificateNumber }

// DisplayInfo wraps the plain rendering with the origin preamble and the
// certificate appendix.
func (c *ImportCure) DisplayInfo(now time.Time) string {
	var b strings.Builder
	writeLine(&b, "Imported from", c.country)
	b.WriteString(c.Cure.DisplayInfo(now))

	certificate := c.certificateNumber
	if certificate == "" {
		certificate = "n/a"
	}
	writeLine(&b, "Certificate", certificate)
	return b.String()
}

// String implements fmt.Stringer.
func (c *ImportCure) String() string {
	return fmt.Sprintf("%s (%s)", c.name, c.country)
}
