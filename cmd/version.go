// =============================================================================
// Cure Converter - Version Command
// =============================================================================
//
// This file defines the 'version' command, which displays the application
// version and build information.
//
// COMMAND USAGE:
//   cures version
//
// OUTPUT:
//   Cure Converter
//   Version:    1.0.0
//   Build Date: 2024-01-01
//   Go Version: go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// =============================================================================
// VERSION INFORMATION
// =============================================================================
// These variables are set at build time using ldflags.
// Example build command:
//   go build -ldflags "-X 'github.com/ginjaninja78/cure-converter/cmd.Version=1.0.0'"

// Version is the application version.
// Set at build time using ldflags.
var Version = "1.0.0"

// BuildDate is the date the application was built.
// Set at build time using ldflags.
var BuildDate = "unknown"

// newVersionCmd builds the 'version' command.
func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Long:  `Display the application version, build date, and Go runtime version.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("version takes no arguments, got %d", len(args))
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.stdout, "Cure Converter")
			fmt.Fprintf(a.stdout, "Version:    %s\n", Version)
			fmt.Fprintf(a.stdout, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(a.stdout, "Go Version: %s\n", runtime.Version())
		},
	}
}
