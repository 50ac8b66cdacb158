package cure

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/cure-converter/internal/schema"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func attrs(name, price string, shelfLife int, produced time.Time) Attributes {
	return Attributes{
		ID:              name,
		Name:            name,
		Group:           "Analgesic",
		Price:           decimal.RequireFromString(price),
		ShelfLifeMonths: shelfLife,
		ProductionDate:  produced,
	}
}

func mustCure(t *testing.T, a Attributes) *Cure {
	t.Helper()
	c, err := New(a)
	require.NoError(t, err)
	return c
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"zero months", date(2024, 1, 15), 0, date(2024, 1, 15)},
		{"one month", date(2024, 1, 1), 1, date(2024, 2, 1)},
		{"across year", date(2024, 11, 30), 3, date(2025, 2, 28)},
		{"clamps to leap day", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"clamps to short month", date(2023, 1, 31), 1, date(2023, 2, 28)},
		{"clamps to 30th", date(2024, 3, 31), 1, date(2024, 4, 30)},
		{"many years", date(2020, 2, 29), 48, date(2024, 2, 29)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.start, tt.months))
		})
	}
}

func TestAddMonths_AdvancesExactlyByMonthCount(t *testing.T) {
	start := date(2023, 1, 31)
	for months := 0; months <= 60; months++ {
		got := AddMonths(start, months)
		elapsed := (got.Year()-start.Year())*12 + int(got.Month()) - int(start.Month())
		assert.Equal(t, months, elapsed, "months=%d", months)
		assert.LessOrEqual(t, got.Day(), start.Day())
	}
}

func TestCure_ExpiryIsRecomputed(t *testing.T) {
	c := mustCure(t, attrs("Aspirin", "10", 24, date(2024, 1, 1)))

	assert.Equal(t, date(2026, 1, 1), c.ExpiryDate())
	assert.Equal(t, c.ExpiryDate(), c.ExpiryDate())
}

func TestCure_IsExpiredBoundary(t *testing.T) {
	c := mustCure(t, attrs("Aspirin", "10", 1, date(2024, 1, 1)))
	expiry := c.ExpiryDate()

	assert.False(t, c.IsExpired(expiry.Add(-time.Nanosecond)))
	assert.False(t, c.IsExpired(expiry), "equal to expiry is not expired")
	assert.True(t, c.IsExpired(expiry.Add(time.Nanosecond)))
}

func TestNew_Validates(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Attributes)
		wantErr string
	}{
		{name: "empty name", mutate: func(a *Attributes) { a.Name = "" }, wantErr: "invalid name"},
		{name: "negative price", mutate: func(a *Attributes) { a.Price = decimal.NewFromInt(-1) }, wantErr: "invalid price"},
		{name: "negative shelf life", mutate: func(a *Attributes) { a.ShelfLifeMonths = -3 }, wantErr: "invalid shelf life"},
		{name: "no production date", mutate: func(a *Attributes) { a.ProductionDate = time.Time{} }, wantErr: "invalid production date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := attrs("Aspirin", "10", 12, date(2024, 1, 1))
			tt.mutate(&a)
			_, err := New(a)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := NewImport(attrs("Aspirin", "10", 12, date(2024, 1, 1)), " ", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid country")
}

func TestCure_DisplayInfo(t *testing.T) {
	c := mustCure(t, attrs("Aspirin", "10.5", 1, date(2024, 1, 1)))

	out := c.DisplayInfo(date(2024, 1, 22))
	assert.Equal(t, ""+
		"Name:          Aspirin\n"+
		"Group:         Analgesic\n"+
		"Price:         10.50\n"+
		"Shelf life:    1 month(s)\n"+
		"Produced:      2024-01-01\n"+
		"Expires:       2024-02-01\n"+
		"Remaining:     10 day(s)\n", out)

	expired := c.DisplayInfo(date(2024, 2, 4))
	assert.Contains(t, expired, "WARNING:       expired 3 day(s) ago\n")
	assert.NotContains(t, expired, "Remaining")

	// later on the expiry day itself
	today := c.DisplayInfo(date(2024, 2, 1).Add(9 * time.Hour))
	assert.Contains(t, today, "WARNING:       expired today\n")
	assert.NotContains(t, today, "0 day(s)")
}

func TestImportCure_DisplayWrapsBase(t *testing.T) {
	ic, err := NewImport(attrs("Nurofen", "120", 36, date(2024, 2, 1)), "Germany", "DE-77")
	require.NoError(t, err)

	now := date(2024, 3, 1)
	out := ic.DisplayInfo(now)
	base := ic.Cure.DisplayInfo(now)

	assert.True(t, strings.HasPrefix(out, "Imported from: Germany\n"))
	assert.Contains(t, out, base)
	assert.True(t, strings.HasSuffix(out, "Certificate:   DE-77\n"))

	var m Medicine = ic
	assert.Equal(t, date(2027, 2, 1), m.ExpiryDate())

	imp, ok := m.(Imported)
	require.True(t, ok)
	assert.Equal(t, "Germany", imp.Country())
	assert.Equal(t, "DE-77", imp.CertificateNumber())

	var plain Medicine = mustCure(t, attrs("Aspirin", "1", 1, date(2024, 1, 1)))
	_, ok = plain.(Imported)
	assert.False(t, ok)
}

func TestComparators(t *testing.T) {
	a := mustCure(t, attrs("A", "10", 1, date(2024, 1, 1)))
	b := mustCure(t, attrs("B", "5", 2, date(2024, 1, 1)))
	c := mustCure(t, attrs("C", "5", 1, date(2024, 1, 1)))

	items := []Medicine{a, b, c}
	SortStable(items, ByPrice)
	assert.Equal(t, []string{"B", "C", "A"}, names(items))

	SortStable(items, ByExpiry)
	assert.Equal(t, []string{"C", "A", "B"}, names(items))
}

func names(items []Medicine) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.Name()
	}
	return out
}

func TestFromRecord(t *testing.T) {
	plain := schema.NewRecord(map[string]any{
		schema.FieldID:             "",
		schema.FieldName:           "Aspirin",
		schema.FieldGroup:          "Analgesic",
		schema.FieldPrice:          decimal.RequireFromString("10.5"),
		schema.FieldShelfLife:      24,
		schema.FieldProductionDate: date(2024, 1, 1),
	})

	m, err := FromRecord(plain)
	require.NoError(t, err)
	assert.IsType(t, &Cure{}, m)
	_, err = uuid.Parse(m.ID())
	assert.NoError(t, err, "blank id replaced by a uuid")

	imported := schema.NewRecord(map[string]any{
		schema.FieldID:                "7",
		schema.FieldName:              "Nurofen",
		schema.FieldGroup:             "Analgesic",
		schema.FieldPrice:             decimal.RequireFromString("120"),
		schema.FieldShelfLife:         36,
		schema.FieldProductionDate:    date(2024, 2, 1),
		schema.FieldCountry:           "Germany",
		schema.FieldCertificateNumber: "DE-77",
	})
	m, err = FromRecord(imported)
	require.NoError(t, err)
	assert.IsType(t, &ImportCure{}, m)
	assert.Equal(t, "7", m.ID())

	bad := schema.NewRecord(map[string]any{
		schema.FieldID:             "9",
		schema.FieldName:           "Broken",
		schema.FieldPrice:          decimal.RequireFromString("-1"),
		schema.FieldProductionDate: date(2024, 2, 1),
	})
	_, err = FromRecord(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cure 9")
}
