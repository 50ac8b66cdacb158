package cure

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ginjaninja78/cure-converter/internal/schema"
)

// FromRecord builds a Medicine from a decoded row. Rows carrying a Country
// field become an *ImportCure, all others a *Cure. A blank CureId is
// replaced with a generated UUID.
func FromRecord(r schema.Record) (Medicine, error) {
	id := strings.TrimSpace(r.String(schema.FieldID))
	if id == "" {
		id = uuid.NewString()
	}

	a := Attributes{
		ID:              id,
		Name:            strings.TrimSpace(r.String(schema.FieldName)),
		Group:           strings.TrimSpace(r.String(schema.FieldGroup)),
		Price:           r.Decimal(schema.FieldPrice),
		ShelfLifeMonths: r.Int(schema.FieldShelfLife),
		ProductionDate:  r.Date(schema.FieldProductionDate),
	}

	if r.Has(schema.FieldCountry) {
		m, err := NewImport(a, r.String(schema.FieldCountry), r.String(schema.FieldCertificateNumber))
		if err != nil {
			return nil, fmt.Errorf("cure %s: %w", id, err)
		}
		return m, nil
	}

	m, err := New(a)
	if err != nil {
		return nil, fmt.Errorf("cure %s: %w", id, err)
	}
	return m, nil
}
