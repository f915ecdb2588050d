package paypalparser

import (
	"io"

	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"
	"fjacquet/monarch-csv/internal/parser"
)

// Adapter implements parser.FullParser for PayPal downloads.
type Adapter struct {
	parser.BaseParser
	opts Options
}

// NewAdapter creates a PayPal adapter.
func NewAdapter(opts Options, logger logging.Logger) *Adapter {
	return &Adapter{
		BaseParser: parser.NewBaseParser(logger),
		opts:       opts,
	}
}

// Options returns the conversion options.
func (a *Adapter) Options() Options {
	return a.opts
}

// Source implements parser.FullParser.
func (a *Adapter) Source() models.Source {
	return models.SourcePayPal
}

// Parse implements parser.Parser.
func (a *Adapter) Parse(r io.Reader) ([]models.Entry, error) {
	entries, counts, err := Parse(r, a.opts, a.GetLogger())
	if err != nil {
		return nil, err
	}
	a.record("", entries, counts)
	return entries, nil
}

// ParseFile implements parser.FullParser.
func (a *Adapter) ParseFile(filePath string) ([]models.Entry, models.StageCounts, error) {
	entries, counts, err := ParseFile(filePath, a.opts, a.GetLogger())
	if err != nil {
		return nil, counts, err
	}
	a.record(filePath, entries, counts)
	return entries, counts, nil
}

// ValidateFormat implements parser.Validator.
func (a *Adapter) ValidateFormat(filePath string) (bool, error) {
	return ValidateFormat(filePath)
}

// ConvertToCSV implements parser.CSVConverter.
func (a *Adapter) ConvertToCSV(inputFile, outputFile string) error {
	entries, _, err := a.ParseFile(inputFile)
	if err != nil {
		return err
	}
	return a.WriteToCSV(entries, outputFile)
}

func (a *Adapter) record(filePath string, entries []models.Entry, counts models.StageCounts) {
	a.LogStageCounts(models.SourcePayPal, filePath, counts)
	a.GetMetrics().RecordCategorized(models.SourcePayPal, entries)
}

var _ parser.FullParser = (*Adapter)(nil)
