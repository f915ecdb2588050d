// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"path/filepath"

	"fjacquet/monarch-csv/internal/batch"
	internalcommon "fjacquet/monarch-csv/internal/common"
	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/metrics"
	"fjacquet/monarch-csv/internal/models"
	"fjacquet/monarch-csv/internal/parser"

	"github.com/google/uuid"
)

// UploadHint tells the user where the output goes in Monarch.
const UploadHint = "Monarch: upload the CSV for a single account from the account details page. " +
	"Select Edit > Upload transactions, then Upload a .CSV file, and wait for the 'Upload is complete' notice"

// ErrNoInput is returned when no input file is given.
var ErrNoInput = errors.New("no input file specified")

// ErrNothingConverted is returned when every input file failed.
var ErrNothingConverted = errors.New("no input file could be converted")

// Options controls a conversion run.
type Options struct {
	// Validate checks each file's format before converting it.
	Validate bool
	// Write holds the output delimiter and header policy.
	Write internalcommon.WriteOptions
	// Metrics receives per-file outcomes. May be nil.
	Metrics *metrics.Metrics
	// RunID correlates the log lines of one invocation. Generated when empty.
	RunID string
}

// Result describes a finished conversion.
type Result struct {
	RunID      string
	Source     models.Source
	Converted  int
	Failed     int
	Skipped    int
	Entries    []models.Entry
	DateRange  batch.DateRange
	OutputFile string
}

// DefaultOutputFile is used when no output path is given: a file named after
// the source next to the first input.
func DefaultOutputFile(source models.Source, firstInput string) string {
	return filepath.Join(filepath.Dir(firstInput), fmt.Sprintf("monarch_%s.csv", source))
}

// ConvertFiles converts every input with p and combines the entries sorted by
// date. A file rejected by validation counts as skipped, one that cannot be
// read or converted as failed. Both are logged and the run continues; it only
// fails when no file converts.
func ConvertFiles(p parser.FullParser, inputs []string, opts Options, logger logging.Logger) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	source := p.Source()
	log := logger.WithFields(
		logging.Field{Key: logging.FieldRunID, Value: runID},
		logging.Field{Key: logging.FieldSource, Value: string(source)})
	p.SetLogger(log)

	result := &Result{RunID: runID, Source: source}
	parse := func(filePath string) ([]models.Entry, error) {
		log.Info("Processing file", logging.Field{Key: logging.FieldInputFile, Value: filePath})

		if opts.Validate {
			valid, err := p.ValidateFormat(filePath)
			if err != nil {
				result.Failed++
				opts.Metrics.IncrFile(source, metrics.OutcomeFailed)
				return nil, fmt.Errorf("error validating file: %w", err)
			}
			if !valid {
				result.Skipped++
				opts.Metrics.IncrFile(source, metrics.OutcomeSkipped)
				return nil, fmt.Errorf("the file is not a valid %s export: %s", source, filePath)
			}
			log.Debug("Validation successful", logging.Field{Key: logging.FieldFile, Value: filePath})
		}

		entries, _, err := p.ParseFile(filePath)
		if err != nil {
			result.Failed++
			opts.Metrics.IncrFile(source, metrics.OutcomeFailed)
			return nil, err
		}
		result.Converted++
		opts.Metrics.IncrFile(source, metrics.OutcomeConverted)
		return entries, nil
	}

	aggregator := batch.NewBatchAggregator(log)
	group := batch.FileGroup{Source: source, Files: inputs}
	result.Entries = aggregator.AggregateEntries(&group, parse)
	result.DateRange = group.DateRange

	if result.Converted == 0 {
		return result, ErrNothingConverted
	}
	return result, nil
}

// ProcessFiles converts inputs with p and writes the combined entries to
// outputFile. An empty outputFile selects DefaultOutputFile. Nothing is
// written when no entry was produced.
func ProcessFiles(p parser.FullParser, inputs []string, outputFile string, opts Options, logger logging.Logger) (*Result, error) {
	result, err := ConvertFiles(p, inputs, opts, logger)
	if err != nil {
		return result, err
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	log := logger.WithField(logging.FieldRunID, result.RunID)

	if outputFile == "" {
		outputFile = DefaultOutputFile(result.Source, inputs[0])
	}
	if err := WriteResult(result, outputFile, opts.Write, log); err != nil {
		return result, err
	}
	return result, nil
}

// WriteResult writes the entries of result to outputFile and logs the upload
// hint. A result without entries is reported and not written.
func WriteResult(result *Result, outputFile string, write internalcommon.WriteOptions, log logging.Logger) error {
	if len(result.Entries) == 0 {
		log.Warn("No valid data found, nothing written",
			logging.Field{Key: logging.FieldSource, Value: string(result.Source)})
		return nil
	}

	if err := internalcommon.WriteEntriesToFile(outputFile, result.Entries, write, log); err != nil {
		return fmt.Errorf("error writing %s output: %w", result.Source, err)
	}
	result.OutputFile = outputFile

	log.Info("Combined Monarch import file saved",
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
		logging.Field{Key: logging.FieldCount, Value: len(result.Entries)},
		logging.Field{Key: "files_converted", Value: result.Converted},
		logging.Field{Key: "files_failed", Value: result.Failed},
		logging.Field{Key: "files_skipped", Value: result.Skipped})
	log.Info(UploadHint)
	return nil
}
