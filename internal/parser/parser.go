package parser

import (
	"io"

	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"
)

// ParserType identifies an export format.
type ParserType string

const (
	Venmo  ParserType = ParserType(models.SourceVenmo)
	PayPal ParserType = ParserType(models.SourcePayPal)
)

// Parser reads one export and returns the entries it describes.
type Parser interface {
	// Parse reads an export from r. Rows that are not transactions are
	// skipped; only file-level problems such as a missing header are errors.
	Parse(r io.Reader) ([]models.Entry, error)
}

// Validator reports whether a file looks like the export a parser handles.
type Validator interface {
	ValidateFormat(filePath string) (bool, error)
}

// CSVConverter converts a file straight to Monarch CSV.
type CSVConverter interface {
	ConvertToCSV(inputFile, outputFile string) error
}

// LoggerConfigurable can have its logger replaced.
type LoggerConfigurable interface {
	SetLogger(logger logging.Logger)
}

// FullParser is implemented by every source adapter.
type FullParser interface {
	Parser
	Validator
	CSVConverter
	LoggerConfigurable

	// ParseFile parses the file at filePath and returns its stage counts.
	ParseFile(filePath string) ([]models.Entry, models.StageCounts, error)

	// Source returns the export format handled by the adapter.
	Source() models.Source
}
