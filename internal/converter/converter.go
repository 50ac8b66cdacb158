// =============================================================================
// Cure Converter - Converter Module
// =============================================================================
//
// This module contains the core conversion logic. It orchestrates the entire
// conversion pipeline for a single input file, from tabular parsing to XML
// generation.
//
// CONVERSION PIPELINE:
//   1. Open the input (CSV or XLSX) and detect its schema from the header
//   2. Decode every row (fail-fast: the first bad row aborts the run)
//   3. Project the records onto the requested fields
//   4. Resolve the output path
//   5. Write the XML document (skipped in dry-run mode)
//   6. Write the XSD describing the document, when a schema path is set
//
// No output file is created unless every row decoded successfully and every
// element name is valid. A dry run performs the same name checks.
//
// =============================================================================

package converter

import (
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/cure-converter/internal/config"
	"github.com/ginjaninja78/cure-converter/internal/csvparser"
	"github.com/ginjaninja78/cure-converter/internal/schema"
	"github.com/ginjaninja78/cure-converter/internal/validation"
	"github.com/ginjaninja78/cure-converter/internal/xlsxparser"
	"github.com/ginjaninja78/cure-converter/internal/xmlwriter"
	"github.com/ginjaninja78/cure-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated XML file.
	// This is empty if processing failed.
	OutputFile string

	// SchemaFile is the path to the generated XSD, if one was requested.
	SchemaFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	// This is nil if processing was successful.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// SchemaName is the schema detected from the input header.
	SchemaName string

	// RowsProcessed is the number of data rows decoded.
	RowsProcessed int

	// FieldsProjected is the number of fields emitted per row.
	FieldsProjected int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the conversion of a single tabular file to XML.
type Converter struct {
	// inputPath is the path to the input CSV or XLSX file.
	inputPath string

	// outputPath is the output file, or a directory to generate a name in.
	outputPath string

	// include lists the fields to project. nil projects every field.
	include []string

	// cfg is the application configuration.
	cfg *config.Config

	// logger receives progress messages.
	logger Logger

	// dryRun stops after projection; nothing is written.
	dryRun bool

	// schemaPath receives an XSD describing the output. Empty means none.
	schemaPath string
}

// Logger is an interface for logging.
// logging.Console implements it.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - inputPath: The path to the input file (.csv, .tsv, .txt, .xlsx, .xlsm).
//   - outputPath: The output XML file, or an existing directory.
//   - include: The field names to project. An empty list projects all fields.
//   - cfg: The application configuration. nil means config.Default().
//
// RETURNS:
//   - A new Converter instance that discards log messages until
//     WithLogger is called.
func New(inputPath, outputPath string, include []string, cfg *config.Config) *Converter {
	if cfg == nil {
		cfg = config.Default()
	}
	if len(include) == 0 {
		include = nil
	}

	return &Converter{
		inputPath:  inputPath,
		outputPath: outputPath,
		include:    include,
		cfg:        cfg,
		logger:     discardLogger{},
	}
}

// WithLogger sets the logger and returns the converter.
func (c *Converter) WithLogger(logger Logger) *Converter {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithDryRun makes Run decode and project without writing any file.
func (c *Converter) WithDryRun(dryRun bool) *Converter {
	c.dryRun = dryRun
	return c
}

// WithSchemaFile makes Run also write an XSD for the output document to path.
func (c *Converter) WithSchemaFile(path string) *Converter {
	c.schemaPath = path
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing. A decode
//     failure is reported as a *validation.DecodeError inside Result.Error.
func (c *Converter) Run() Result {
	startTime := time.Now()
	result := Result{
		FilePath: c.inputPath,
		Success:  false,
	}

	c.logger.Info("Processing file: %s", c.inputPath)

	// =========================================================================
	// STEP 1: OPEN INPUT
	// =========================================================================
	// The header row selects the schema (plain or import cures).

	reader, err := OpenInput(c.inputPath, c.cfg.CSV)
	if err != nil {
		result.Error = fmt.Errorf("failed to open input: %w", err)
		return result
	}
	defer reader.Close()

	s := reader.Schema()
	result.Stats.SchemaName = s.Name
	c.logger.Debug("Detected schema %q with fields %v", s.Name, s.Names())

	// =========================================================================
	// STEP 2: DECODE ROWS
	// =========================================================================
	// Any row that fails to decode aborts the run before anything is written.

	records, err := reader.ReadAll()
	if err != nil {
		if de, ok := validation.AsDecodeError(err); ok {
			c.logger.Debug("Decode failed at row %d (%s)", de.Row, de.Rule)
		}
		result.Error = err
		return result
	}

	result.Stats.RowsProcessed = len(records)
	c.logger.Debug("Decoded %d rows", len(records))

	// =========================================================================
	// STEP 3: PROJECT
	// =========================================================================

	for _, name := range c.include {
		if !s.Has(name) {
			c.logger.Warn("Field %q is not in schema %q and is ignored", name, s.Name)
		}
	}

	doc := Project(records, s, c.include, c.projectOptions())
	fields := selectFields(s, c.include)
	result.Stats.FieldsProjected = len(fields)

	layout := c.xsdLayout(fields)

	if c.dryRun {
		// Serialize to nowhere so a dry run rejects what a real run would.
		if err := xmlwriter.Write(io.Discard, doc, c.writerOptions()); err != nil {
			result.Error = err
			return result
		}
		if c.schemaPath != "" {
			if _, err := xmlwriter.GenerateXSD(layout); err != nil {
				result.Error = err
				return result
			}
		}
		c.logger.Info("Dry run: %d record(s) decoded, nothing written", len(doc.Rows))
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// =========================================================================
	// STEP 4: RESOLVE OUTPUT PATH
	// =========================================================================

	outputPath, err := utils.ResolveOutputPath(c.outputPath, c.inputPath, c.cfg.Output.NameFormat)
	if err != nil {
		result.Error = fmt.Errorf("failed to resolve output path: %w", err)
		return result
	}

	// =========================================================================
	// STEP 5: WRITE OUTPUT FILE
	// =========================================================================

	if err := xmlwriter.WriteFile(outputPath, doc, c.writerOptions()); err != nil {
		result.Error = err
		return result
	}

	result.OutputFile = outputPath
	c.logger.Info("Wrote %d record(s) to: %s", len(doc.Rows), outputPath)

	// =========================================================================
	// STEP 6: WRITE SCHEMA FILE
	// =========================================================================

	if c.schemaPath != "" {
		if err := xmlwriter.WriteXSDFile(c.schemaPath, layout); err != nil {
			result.Error = err
			return result
		}
		result.SchemaFile = c.schemaPath
		c.logger.Info("Wrote schema to: %s", c.schemaPath)
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// OpenInput opens a tabular input file, choosing the parser by extension.
//
// PARAMETERS:
//   - path: The input file.
//   - settings: Delimiter, encoding and date layouts. Only the date layouts
//     apply to workbooks.
//
// RETURNS:
//   - A reader positioned after the header, bound to the detected schema.
//   - An error if the file type is unsupported, the file cannot be opened,
//     or the header matches no registered schema.
func OpenInput(path string, settings config.CSVSettings) (*csvparser.Reader, error) {
	format, err := utils.DetectInputFormat(path)
	if err != nil {
		return nil, err
	}

	candidates := schema.Registry()
	if format == utils.FormatWorkbook {
		return xlsxparser.Open(path, settings.DateLayouts, candidates...)
	}
	return csvparser.Open(path, settings, candidates...)
}

// projectOptions maps the document settings to projector options.
func (c *Converter) projectOptions() ProjectOptions {
	return ProjectOptions{
		RootElement:    c.cfg.Document.RootElement,
		RowElement:     c.cfg.Document.RowElement,
		IndexAttribute: c.cfg.Document.IndexAttribute,
	}
}

// xsdLayout describes the projected document for XSD generation.
func (c *Converter) xsdLayout(fields []schema.Field) xmlwriter.XSDLayout {
	opts := c.projectOptions()
	return xmlwriter.XSDLayout{
		RootElement:    opts.RootElement,
		RowElement:     opts.RowElement,
		IndexAttribute: opts.IndexAttribute,
		Fields:         fields,
	}
}

// writerOptions maps the document settings to writer options.
func (c *Converter) writerOptions() xmlwriter.Options {
	opts := xmlwriter.DefaultOptions()
	if c.cfg.Document.Indent != nil {
		opts.Indent = *c.cfg.Document.Indent
	}
	if c.cfg.Document.XMLDeclaration != nil {
		opts.IncludeXMLDeclaration = *c.cfg.Document.XMLDeclaration
	}
	return opts
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// discardLogger drops every message.
type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}
