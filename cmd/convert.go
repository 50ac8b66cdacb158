// =============================================================================
// Cure Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which converts one cure export to
// an XML document.
//
// COMMAND USAGE:
//   cures convert <input> <output> [field ...] [flags]
//
// ARGUMENTS:
//   input   : .csv/.tsv/.txt or .xlsx/.xlsm file; the header selects the schema
//   output  : XML file to write, or an existing directory (a name is generated)
//   field   : optional field names to include; unknown names are ignored
//
// FLAGS:
//   --dry-run : Decode and project without writing the output file
//   --xsd     : Also write an XSD describing the output document
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cure-converter/internal/converter"
)

// newConvertCmd builds the 'convert' command.
func newConvertCmd(a *app) *cobra.Command {
	var (
		dryRun  bool
		xsdPath string
	)

	convertCmd := &cobra.Command{
		Use:   "convert <input> <output> [field ...]",
		Short: "Convert a cure export to XML",
		Long: `The convert command reads a cure export and writes one XML document with a
record element per row and one child element per selected field.

Fields are written in the order of the input header. With no field arguments
every field is written. Field names that are not in the input are ignored.

The whole input is decoded before anything is written: if any row fails to
decode, the command reports the row and field and no output file is created.`,

		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return usageErrorf("convert requires an input file and an output path, got %d argument(s)", len(args))
			}
			return nil
		},

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(a, args[0], args[1], args[2:], dryRun, xsdPath)
		},
	}

	convertCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Decode and project without writing the output file",
	)

	convertCmd.Flags().StringVar(
		&xsdPath,
		"xsd",
		"",
		"Also write an XSD schema describing the output to this path",
	)

	return convertCmd
}

// runConvert executes one conversion and prints the confirmation line.
func runConvert(a *app, input, output string, fields []string, dryRun bool, xsdPath string) error {
	result := converter.New(input, output, fields, a.cfg).
		WithLogger(a.logger).
		WithDryRun(dryRun).
		WithSchemaFile(xsdPath).
		Run()

	if result.Error != nil {
		return result.Error
	}

	a.logger.Debug("Converted %d row(s), %d field(s) each, in %s",
		result.Stats.RowsProcessed, result.Stats.FieldsProjected, result.Stats.ProcessingTime)

	if dryRun {
		fmt.Fprintf(a.stdout, "Dry run completed successfully: %d record(s) from %s\n", result.Stats.RowsProcessed, input)
		return nil
	}

	fmt.Fprintf(a.stdout, "Conversion completed successfully: %s\n", result.OutputFile)
	if result.SchemaFile != "" {
		fmt.Fprintf(a.stdout, "Schema written: %s\n", result.SchemaFile)
	}
	return nil
}
