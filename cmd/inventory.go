// =============================================================================
// Cure Converter - Inventory Command
// =============================================================================
//
// This file defines the 'inventory' command, which loads a cure export into an
// inventory and prints a display block per cure.
//
// COMMAND USAGE:
//   cures inventory <input> [flags]
//
// FLAGS:
//   --sort      : "price" or "expiry" (stable; default keeps file order)
//   --imported  : Show imported cures only
//   --as-of     : Reference date (YYYY-MM-DD) for expiry; default today
//
// Inventory events (added, sorted, listed) are logged to stderr; display
// blocks go to stdout.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cure-converter/internal/converter"
	"github.com/ginjaninja78/cure-converter/internal/cure"
	"github.com/ginjaninja78/cure-converter/internal/inventory"
	"github.com/ginjaninja78/cure-converter/internal/schema"
)

// inventoryOptions holds the inventory command flags.
type inventoryOptions struct {
	sortBy   string
	imported bool
	asOf     string
}

// newInventoryCmd builds the 'inventory' command.
func newInventoryCmd(a *app) *cobra.Command {
	opts := &inventoryOptions{}

	inventoryCmd := &cobra.Command{
		Use:   "inventory <input>",
		Short: "Load a cure export into an inventory and display it",
		Long: `The inventory command reads a cure export (plain or imported cures), adds
every row to an inventory and prints each cure with its expiry status.

Rows with a Country column become imported cures. Sorting is stable: cures
with equal prices or expiry dates keep their file order.`,

		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("inventory requires exactly one input file, got %d argument(s)", len(args))
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInventory(a, args[0], opts)
		},
	}

	inventoryCmd.Flags().StringVar(&opts.sortBy, "sort", "", `Sort order: "price" or "expiry"`)
	inventoryCmd.Flags().BoolVar(&opts.imported, "imported", false, "Show imported cures only")
	inventoryCmd.Flags().StringVar(&opts.asOf, "as-of", "", "Reference date for expiry (YYYY-MM-DD)")

	return inventoryCmd
}

// runInventory loads, orders, filters and displays the inventory.
func runInventory(a *app, input string, opts *inventoryOptions) error {
	clock, err := opts.clock()
	if err != nil {
		return err
	}
	if opts.sortBy != "" && opts.sortBy != "price" && opts.sortBy != "expiry" {
		return usageErrorf("invalid --sort %q: expected price or expiry", opts.sortBy)
	}

	inv := inventory.New(a.logger, inventory.WithClock(clock))
	if err := loadInventory(inv, input, a); err != nil {
		return err
	}

	switch opts.sortBy {
	case "price":
		inv.SortByPrice()
	case "expiry":
		inv.SortByExpiry()
	}

	var items []cure.Medicine
	if opts.imported {
		items = inv.FilterImported()
	} else {
		items, err = inv.ListAll()
		if errors.Is(err, inventory.ErrEmpty) {
			fmt.Fprintln(a.stdout, "Inventory is empty")
			return nil
		}
		if err != nil {
			return err
		}
	}

	if len(items) == 0 {
		fmt.Fprintln(a.stdout, "No imported cures")
		return nil
	}
	return inv.Display(a.stdout, items)
}

// loadInventory streams the input rows into inv. The first bad row aborts
// the load.
func loadInventory(inv *inventory.Inventory, input string, a *app) error {
	reader, err := converter.OpenInput(input, a.cfg.CSV)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer reader.Close()

	a.logger.Debug("Detected schema %q", reader.Schema().Name)

	for reader.Next() {
		m, err := cure.FromRecord(reader.Record())
		if err != nil {
			return fmt.Errorf("row %d: %w", reader.RowNumber(), err)
		}
		inv.Add(m)
	}
	return reader.Err()
}

// clock returns the reference time source.
func (o *inventoryOptions) clock() (func() time.Time, error) {
	if o.asOf == "" {
		return time.Now, nil
	}

	asOf, err := time.Parse(schema.CanonicalDateLayout, o.asOf)
	if err != nil {
		return nil, usageErrorf("invalid --as-of %q: expected YYYY-MM-DD", o.asOf)
	}
	return func() time.Time { return asOf }, nil
}
