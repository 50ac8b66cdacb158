// =============================================================================
// Cure Converter - Configuration Module
// =============================================================================
//
// This module loads the optional YAML configuration file. Every setting has a
// default, so the converter runs without any file at all.
//
// EXAMPLE (config.yaml):
//
//   log_level: info
//   csv:
//     delimiter: ","
//     encoding: windows-1251
//     date_layouts: ["2006-01-02", "02.01.2006"]
//   document:
//     root_element: records
//     row_element: record
//     index_attribute: row
//     indent: "  "
//     xml_declaration: true
//   output:
//     name_format: "{original}_{uuid}.xml"
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/cure-converter/internal/xmlwriter"
)

// =============================================================================
// CONFIGURATION STRUCTURES
// =============================================================================

// Config holds all application settings.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// CSV controls how tabular input is read.
	CSV CSVSettings `yaml:"csv"`

	// Document controls the shape of the generated XML.
	Document DocumentSettings `yaml:"document"`

	// Output controls where the document is written.
	Output OutputSettings `yaml:"output"`
}

// CSVSettings contains the input parsing options.
type CSVSettings struct {
	// Delimiter is the field separator. Accepts a single character or one of
	// the names "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the WHATWG name of the input text encoding
	// (e.g. "UTF-8", "windows-1251", "iso-8859-5").
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// DateLayouts are Go time layouts tried, in order, for date fields.
	// Default: schema.DefaultDateLayouts()
	DateLayouts []string `yaml:"date_layouts"`
}

// DocumentSettings names the XML elements and controls formatting.
type DocumentSettings struct {
	// RootElement wraps all rows.
	// Default: "records"
	RootElement string `yaml:"root_element"`

	// RowElement is emitted once per input row.
	// Default: "record"
	RowElement string `yaml:"row_element"`

	// IndexAttribute carries the 1-based row number on each row element.
	// Default: "row"
	IndexAttribute string `yaml:"index_attribute"`

	// Indent is the indentation unit.
	// Default: two spaces
	Indent *string `yaml:"indent"`

	// XMLDeclaration controls the <?xml ...?> prolog.
	// Default: true
	XMLDeclaration *bool `yaml:"xml_declaration"`
}

// OutputSettings contains output file options.
type OutputSettings struct {
	// NameFormat names the file generated when the output argument is a
	// directory. Placeholders: {uuid}, {timestamp}, {date}, {time}, {original}.
	// Default: "{uuid}.xml"
	NameFormat string `yaml:"name_format"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path.
//
// When optional is true and the file does not exist, the defaults are
// returned instead of an error. This is how the default --config value is
// treated; an explicitly named file must exist.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset options.
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}
	if cfg.CSV.Encoding == "" {
		cfg.CSV.Encoding = "UTF-8"
	}

	if cfg.Document.RootElement == "" {
		cfg.Document.RootElement = "records"
	}
	if cfg.Document.RowElement == "" {
		cfg.Document.RowElement = "record"
	}
	if cfg.Document.IndexAttribute == "" {
		cfg.Document.IndexAttribute = "row"
	}
	if cfg.Document.Indent == nil {
		indent := "  "
		cfg.Document.Indent = &indent
	}
	if cfg.Document.XMLDeclaration == nil {
		decl := true
		cfg.Document.XMLDeclaration = &decl
	}

	if cfg.Output.NameFormat == "" {
		cfg.Output.NameFormat = "{uuid}.xml"
	}
}

// validate checks values that cannot be defaulted.
func validate(cfg *Config) error {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}

	if _, err := cfg.CSV.Comma(); err != nil {
		return err
	}

	names := []struct{ key, value string }{
		{"document.root_element", cfg.Document.RootElement},
		{"document.row_element", cfg.Document.RowElement},
		{"document.index_attribute", cfg.Document.IndexAttribute},
	}
	for _, n := range names {
		if !xmlwriter.IsXMLName(n.value) {
			return fmt.Errorf("invalid %s %q: not a valid XML name", n.key, n.value)
		}
	}

	return nil
}

// Comma resolves the configured delimiter to a rune.
func (s CSVSettings) Comma() (rune, error) {
	switch strings.ToLower(s.Delimiter) {
	case "\\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	case ";", "semicolon":
		return ';', nil
	case "", ",", "comma":
		return ',', nil
	}

	r := []rune(s.Delimiter)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, fmt.Errorf("invalid csv delimiter %q", s.Delimiter)
	}
	return r[0], nil
}
