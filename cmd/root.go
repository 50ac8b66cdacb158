// =============================================================================
// Cure Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (cures)
//   ├── convertCmd   (cures convert <input> <output> [fields...])
//   ├── inventoryCmd (cures inventory <input>)
//   └── versionCmd   (cures version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration file before any subcommand runs
//   3. Setting up logging
//
// EXIT CODES:
//   0 - success
//   1 - runtime failure (IO, decode, write)
//   2 - usage error (unknown command, missing arguments, bad flag values)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cure-converter/internal/config"
	"github.com/ginjaninja78/cure-converter/internal/logging"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ErrUsage marks errors caused by how the program was invoked.
var ErrUsage = errors.New("usage error")

// usageErrorf returns an error wrapping ErrUsage.
func usageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// =============================================================================
// APPLICATION STATE
// =============================================================================

// app carries the global flag values and the state shared by subcommands.
// A fresh app is built for every Run so flag values never leak between runs.
type app struct {
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// verbose enables debug logging when set to true.
	verbose bool

	// cfg is loaded in the root PersistentPreRunE.
	cfg *config.Config

	// logger writes to stderr.
	logger *logging.Console

	stdout io.Writer
	stderr io.Writer
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// defaultConfigFile is read when present; a missing default file means defaults.
const defaultConfigFile = "config.yaml"

// newRootCmd builds the command tree.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cures",
		Short: "Cure Converter - convert cure exports to XML and inspect inventories",
		Long: `Cure Converter reads cure exports (CSV or XLSX, plain or imported cures)
and either projects them into an XML document or loads them into an
inventory for expiry and price review.

Example Usage:
  cures convert cures.csv cures.xml                 # All fields
  cures convert cures.csv out/ CureName Price       # Selected fields, generated name
  cures inventory imports.xlsx --sort expiry        # Review by expiry date
  cures inventory cures.csv --imported --as-of 2025-01-01`,

		SilenceUsage:  true,
		SilenceErrors: true,

		// Anything left over after subcommand lookup is an unknown command.
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},

		// If no subcommand is provided, print the help message.
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&a.cfgFile,
		"config",
		defaultConfigFile,
		"Path to the YAML configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&a.verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageErrorf("%v", err)
	})

	rootCmd.AddCommand(
		newConvertCmd(a),
		newInventoryCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// init loads the configuration and builds the logger.
//
// The default config file is optional; a file named with --config must exist.
func (a *app) init(cmd *cobra.Command) error {
	optional := !cmd.Flags().Changed("config")

	cfg, err := config.Load(a.cfgFile, optional)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.New(a.stderr, level)
	a.logger.Debug("Configuration loaded from %s", a.cfgFile)

	return nil
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the command tree with args and returns the exit code.
//
// Every failure is reported as a single "Error: ..." line on stderr. Usage
// errors are followed by the usage text of the command that failed.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, ErrUsage) {
		if cmd != nil {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return ExitUsage
	}
	return ExitFailure
}
