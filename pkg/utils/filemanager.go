// =============================================================================
// Cure Converter - File Manager Utility
// =============================================================================
//
// This module provides the file helpers used around a single conversion:
//   - Input format detection by extension
//   - Output path resolution (directory targets get a generated name)
//   - Parent directory creation
//   - File naming utilities
//
// Exactly one output document is produced per run. Nothing is archived,
// moved or deleted.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// INPUT FORMATS
// =============================================================================

// InputFormat identifies how an input file is read.
type InputFormat int

const (
	// FormatUnknown is returned for unsupported extensions.
	FormatUnknown InputFormat = iota

	// FormatDelimited is a delimited text file (.csv, .tsv, .txt).
	FormatDelimited

	// FormatWorkbook is an Excel workbook (.xlsx, .xlsm).
	FormatWorkbook
)

// String returns the format name.
func (f InputFormat) String() string {
	switch f {
	case FormatDelimited:
		return "csv"
	case FormatWorkbook:
		return "xlsx"
	default:
		return "unknown"
	}
}

// DetectInputFormat maps a file extension to an InputFormat.
//
// PARAMETERS:
//   - path: The input file path. Only the extension is inspected.
//
// RETURNS:
//   - The detected format.
//   - An error if the extension is not supported.
func DetectInputFormat(path string) (InputFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatDelimited, nil
	case ".xlsx", ".xlsm":
		return FormatWorkbook, nil
	default:
		return FormatUnknown, fmt.Errorf("unsupported input file type %q: expected .csv, .tsv, .txt, .xlsx or .xlsm", filepath.Ext(path))
	}
}

// =============================================================================
// OUTPUT PATHS
// =============================================================================

// DefaultOutputNameFormat is used when the output argument is a directory.
const DefaultOutputNameFormat = "{uuid}.xml"

// ResolveOutputPath returns the file the document is written to.
//
// PARAMETERS:
//   - outputPath: The path given by the caller.
//   - inputPath: The input file, used for the {original} placeholder.
//   - nameFormat: The file name format applied when outputPath is an
//     existing directory. Empty means DefaultOutputNameFormat.
//
// RETURNS:
//   - outputPath itself when it is not a directory, otherwise a generated
//     file name inside it.
//   - An error if the parent directory cannot be created.
func ResolveOutputPath(outputPath, inputPath, nameFormat string) (string, error) {
	if outputPath == "" {
		return "", fmt.Errorf("output path is empty")
	}

	if IsDir(outputPath) {
		if nameFormat == "" {
			nameFormat = DefaultOutputNameFormat
		}
		original := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		name := GenerateOutputFileName(nameFormat, map[string]string{"original": original})
		return filepath.Join(outputPath, name), nil
	}

	if err := EnsureParentDir(outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a unique output file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {original}  - Input file name (without extension)
//   - params: A map of placeholder values.
//
// RETURNS:
//   - The generated file name, always ending in .xml.
//
// EXAMPLE:
//   format: "{original}_{date}_{uuid}.xml"
//   params: {"original": "cures"}
//   output: "cures_20240115_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xml"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if !strings.HasSuffix(strings.ToLower(result), ".xml") {
		result += ".xml"
	}

	return result
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
