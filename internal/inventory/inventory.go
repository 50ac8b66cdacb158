// Package inventory holds an ordered, in-memory collection of medicines.
package inventory

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/cure-converter/internal/cure"
)

// ErrEmpty is returned by ListAll when nothing has been added yet.
var ErrEmpty = errors.New("inventory is empty")

// Notifier receives human-readable events. Notify must not block; a
// panicking Notifier does not abort the calling operation.
type Notifier interface {
	Notify(message string)
}

// Option configures an Inventory.
type Option func(*Inventory)

// WithClock overrides the time source used for display.
func WithClock(now func() time.Time) Option {
	return func(inv *Inventory) {
		inv.now = now
	}
}

// Inventory owns a sequence of medicines in insertion order until sorted.
// It is not safe for concurrent use.
type Inventory struct {
	items    []cure.Medicine
	notifier Notifier
	now      func() time.Time
}

// New creates an empty Inventory. notifier may be nil.
func New(notifier Notifier, opts ...Option) *Inventory {
	inv := &Inventory{
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Add appends m.
func (inv *Inventory) Add(m cure.Medicine) {
	inv.items = append(inv.items, m)
	inv.notify("added %s", m.Name())
}

// Len returns the number of medicines held.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// ListAll returns a copy of the medicines in current order, or ErrEmpty.
func (inv *Inventory) ListAll() ([]cure.Medicine, error) {
	if len(inv.items) == 0 {
		inv.notify("inventory is empty")
		return nil, ErrEmpty
	}

	out := make([]cure.Medicine, len(inv.items))
	copy(out, inv.items)
	inv.notify("listing %d cure(s)", len(out))
	return out, nil
}

// SortByPrice reorders by ascending price. Equal prices keep their order.
func (inv *Inventory) SortByPrice() {
	cure.SortStable(inv.items, cure.ByPrice)
	inv.notify("sorted by price")
}

// SortByExpiry reorders by ascending expiry date. Equal dates keep their order.
func (inv *Inventory) SortByExpiry() {
	cure.SortStable(inv.items, cure.ByExpiry)
	inv.notify("sorted by expiry date")
}

// FilterImported returns the medicines carrying import attributes, in
// current relative order.
func (inv *Inventory) FilterImported() []cure.Medicine {
	var out []cure.Medicine
	for _, m := range inv.items {
		if _, ok := m.(cure.Imported); ok {
			out = append(out, m)
		}
	}
	inv.notify("found %d imported cure(s)", len(out))
	return out
}

// Display writes the display block of each item to w, separated by blank
// lines, relative to the inventory clock.
func (inv *Inventory) Display(w io.Writer, items []cure.Medicine) error {
	now := inv.now()
	for i, m := range items {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("failed to write display: %w", err)
			}
		}
		if _, err := io.WriteString(w, m.DisplayInfo(now)); err != nil {
			return fmt.Errorf("failed to write display: %w", err)
		}
	}
	return nil
}

func (inv *Inventory) notify(format string, args ...any) {
	if inv.notifier == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	inv.notifier.Notify(fmt.Sprintf(format, args...))
}
