// Package common provides shared functionality across different parsers.
package common

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"
	"fjacquet/monarch-csv/internal/parsererror"

	"github.com/gocarina/gocsv"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultDelimiter separates output fields when nothing else is configured.
const DefaultDelimiter = ','

// WriteOptions controls how entries are written.
type WriteOptions struct {
	Delimiter     rune
	IncludeHeader bool
}

// DefaultWriteOptions uses commas and no header row, which is what the
// Monarch importer expects.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Delimiter: DefaultDelimiter}
}

// NewBOMReader strips a leading UTF-8 or UTF-16 byte order mark and decodes
// the stream as UTF-8.
func NewBOMReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadLines reads r line by line with the BOM removed. Trailing carriage
// returns are dropped.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(NewBOMReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lines: %w", err)
	}
	return lines, nil
}

// FindHeaderIndex returns the index of the first line that, once trimmed,
// starts with one of prefixes.
func FindHeaderIndex(lines []string, prefixes ...string) (int, error) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range prefixes {
			if strings.HasPrefix(trimmed, prefix) {
				return i, nil
			}
		}
	}
	return -1, &parsererror.HeaderNotFoundError{Expected: strings.Join(prefixes, " or ")}
}

// NewLenientCSVReader builds a csv.Reader that accepts rows with a varying
// number of fields and stray quotes, as found in hand-edited exports.
func NewLenientCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader
}

// UnmarshalRows maps CSV content with a header line onto a slice of TRow
// using gocsv struct tags. Content with only a header yields no rows.
func UnmarshalRows[TRow any](r io.Reader) ([]TRow, error) {
	var rows []TRow
	if err := gocsv.UnmarshalCSV(NewLenientCSVReader(r), &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("error parsing CSV data: %w", err)
	}
	return rows, nil
}

// UnmarshalRowsFrom locates the header line in r and unmarshals everything
// from there on. Lines before the header are discarded.
func UnmarshalRowsFrom[TRow any](r io.Reader, headerPrefixes ...string) ([]TRow, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	idx, err := FindHeaderIndex(lines, headerPrefixes...)
	if err != nil {
		return nil, err
	}
	return UnmarshalRows[TRow](strings.NewReader(strings.Join(lines[idx:], "\n")))
}

// WriteEntries writes entries to w in the Monarch column layout.
func WriteEntries(w io.Writer, entries []models.Entry, opts WriteOptions) error {
	csvWriter := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		csvWriter.Comma = opts.Delimiter
	}
	safeWriter := gocsv.NewSafeCSVWriter(csvWriter)

	rows := models.ToRows(entries)
	marshal := gocsv.MarshalCSVWithoutHeaders
	if opts.IncludeHeader {
		marshal = gocsv.MarshalCSV
	}
	if err := marshal(rows, safeWriter); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteEntriesToFile writes entries to csvFile, creating parent directories
// as needed.
func WriteEntriesToFile(csvFile string, entries []models.Entry, opts WriteOptions, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	// #nosec G304 -- output path is provided by the user on the command line
	file, err := os.OpenFile(csvFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionOutputFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteEntries(file, entries, opts); err != nil {
		return err
	}

	logger.Info("Successfully wrote entries to CSV file",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(entries)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(opts.Delimiter)})
	return nil
}
