// Package cure models pharmaceutical products held in an inventory.
//
// Two kinds implement Medicine: *Cure, the plain product, and *ImportCure,
// which adds the country of origin and a certificate number. Expiry and
// ordering are shared; ImportCure extends the display by wrapping the plain
// rendering.
package cure

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/cure-converter/internal/schema"
	"github.com/ginjaninja78/cure-converter/internal/validation"
)

// Medicine is the capability set shared by every cure kind.
type Medicine interface {
	ID() string
	Name() string
	Group() string
	Price() decimal.Decimal
	ShelfLifeMonths() int
	ProductionDate() time.Time

	// ExpiryDate is ProductionDate advanced by ShelfLifeMonths calendar
	// months. It is recomputed on every call.
	ExpiryDate() time.Time

	// IsExpired reports now > ExpiryDate().
	IsExpired(now time.Time) bool

	// DisplayInfo renders a human-readable block describing the product
	// relative to now.
	DisplayInfo(now time.Time) string
}

// Imported is implemented by kinds that carry import attributes.
type Imported interface {
	Country() string
	CertificateNumber() string
}

// Attributes are the constructor inputs common to both kinds.
type Attributes struct {
	ID              string
	Name            string
	Group           string
	Price           decimal.Decimal
	ShelfLifeMonths int
	ProductionDate  time.Time
}

// Cure is a plain product.
type Cure struct {
	id              string
	name            string
	group           string
	price           decimal.Decimal
	shelfLifeMonths int
	productionDate  time.Time
}

// New validates a and returns a Cure.
func New(a Attributes) (*Cure, error) {
	if err := check(a).Err(); err != nil {
		return nil, err
	}
	return newCure(a), nil
}

func newCure(a Attributes) *Cure {
	return &Cure{
		id:              a.ID,
		name:            a.Name,
		group:           a.Group,
		price:           a.Price,
		shelfLifeMonths: a.ShelfLifeMonths,
		productionDate:  a.ProductionDate,
	}
}

func check(a Attributes) validation.Errors {
	var es validation.Errors
	es = validation.RequireText(es, "name", a.Name)
	es = validation.RequireNonNegativeDecimal(es, "price", a.Price)
	es = validation.RequireNonNegativeInt(es, "shelf life", a.ShelfLifeMonths)
	if a.ProductionDate.IsZero() {
		es = append(es, &validation.FieldError{Field: "production date", Message: "must be set"})
	}
	return es
}

func (c *Cure) ID() string                { return c.id }
func (c *Cure) Name() string              { return c.name }
func (c *Cure) Group() string             { return c.group }
func (c *Cure) Price() decimal.Decimal    { return c.price }
func (c *Cure) ShelfLifeMonths() int      { return c.shelfLifeMonths }
func (c *Cure) ProductionDate() time.Time { return c.productionDate }

// ExpiryDate implements Medicine.
func (c *Cure) ExpiryDate() time.Time {
	return AddMonths(c.productionDate, c.shelfLifeMonths)
}

// IsExpired implements Medicine.
func (c *Cure) IsExpired(now time.Time) bool {
	return now.After(c.ExpiryDate())
}

// DisplayInfo implements Medicine.
func (c *Cure) DisplayInfo(now time.Time) string {
	var b strings.Builder
	writeLine(&b, "Name", c.name)
	writeLine(&b, "Group", c.group)
	writeLine(&b, "Price", c.price.StringFixed(2))
	writeLine(&b, "Shelf life", fmt.Sprintf("%d month(s)", c.shelfLifeMonths))
	writeLine(&b, "Produced", c.productionDate.Format(schema.CanonicalDateLayout))
	writeLine(&b, "Expires", c.ExpiryDate().Format(schema.CanonicalDateLayout))

	if c.IsExpired(now) {
		days := daysBetween(c.ExpiryDate(), now)
		if days == 0 {
			writeLine(&b, "WARNING", "expired today")
		} else {
			writeLine(&b, "WARNING", fmt.Sprintf("expired %d day(s) ago", days))
		}
	} else {
		writeLine(&b, "Remaining", fmt.Sprintf("%d day(s)", daysBetween(now, c.ExpiryDate())))
	}
	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-15s%s\n", label+":", value)
}

// String implements fmt.Stringer.
func (c *Cure) String() string {
	return c.name
}

// AddMonths advances t by months calendar months. When the day does not
// exist in the target month it is clamped to that month's last day, so
// Jan 31 + 1 month is Feb 28 (or 29).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())

	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}

	hh, mm, ss := t.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// daysBetween counts whole calendar days from a to b (b >= a).
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
