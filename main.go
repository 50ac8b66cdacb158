// =============================================================================
// Cure Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Cure Converter CLI application.
// It delegates command execution to the cmd package.
//
// USAGE:
//   cures convert <input> <output> [field ...]  - Convert a cure export to XML
//   cures inventory <input>                     - Display an inventory
//   cures version                               - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core logic (schema, readers, projector, writer, cures)
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/cure-converter/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
