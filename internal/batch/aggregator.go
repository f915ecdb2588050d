// Package batch combines the entries of several exports into one
// chronologically ordered output.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// CalculateDateRange returns the earliest and latest entry dates.
func CalculateDateRange(entries []models.Entry) DateRange {
	if len(entries) == 0 {
		return DateRange{}
	}

	start := entries[0].Date
	end := entries[0].Date
	for _, e := range entries[1:] {
		if e.Date.Before(start) {
			start = e.Date
		}
		if e.Date.After(end) {
			end = e.Date
		}
	}
	return DateRange{Start: start, End: end}
}

// CombineAndSort concatenates batches in order and sorts the result by date.
// The sort is stable, so entries sharing a date keep their batch order and
// their order within a batch. The inputs are not modified.
func CombineAndSort(batches [][]models.Entry) []models.Entry {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	combined := make([]models.Entry, 0, total)
	for _, b := range batches {
		combined = append(combined, b...)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Date.Before(combined[j].Date)
	})
	return combined
}

// FileGroup is a set of input files of the same export format.
type FileGroup struct {
	Source    models.Source
	Files     []string
	DateRange DateRange
}

// DetectFunc reports the export format of a file, or false when no parser
// recognizes it.
type DetectFunc func(filePath string) (models.Source, bool)

// ParseFunc converts one file to entries.
type ParseFunc func(filePath string) ([]models.Entry, error)

// BatchAggregator groups input files and combines their entries.
type BatchAggregator struct {
	logger logging.Logger
}

// NewBatchAggregator creates a new BatchAggregator instance
func NewBatchAggregator(logger logging.Logger) *BatchAggregator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &BatchAggregator{
		logger: logger,
	}
}

// GroupFilesBySource groups files by detected export format. Unrecognized
// files are logged and left out. Groups are sorted by source name and keep
// the file order given.
func (ba *BatchAggregator) GroupFilesBySource(files []string, detect DetectFunc) []FileGroup {
	groups := make(map[models.Source]*FileGroup)

	for _, file := range files {
		source, ok := detect(file)
		if !ok {
			ba.logger.Warn("Unrecognized export format, skipping",
				logging.Field{Key: logging.FieldFile, Value: file})
			continue
		}

		ba.logger.Debug("File mapped to source",
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)},
			logging.Field{Key: logging.FieldSource, Value: string(source)})

		group, exists := groups[source]
		if !exists {
			group = &FileGroup{Source: source}
			groups[source] = group
		}
		group.Files = append(group.Files, file)
	}

	result := make([]FileGroup, 0, len(groups))
	for _, group := range groups {
		result = append(result, *group)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Source < result[j].Source
	})

	ba.logger.Info("Grouped files by source",
		logging.Field{Key: "total_files", Value: len(files)},
		logging.Field{Key: "groups", Value: len(result)})

	return result
}

// AggregateEntries parses every file of the group, combines the results and
// sorts them by date. A file that fails to parse is logged and skipped.
// The group's DateRange is filled from the combined entries.
func (ba *BatchAggregator) AggregateEntries(group *FileGroup, parse ParseFunc) []models.Entry {
	ba.logger.Info("Aggregating entries",
		logging.Field{Key: logging.FieldSource, Value: string(group.Source)},
		logging.Field{Key: "file_count", Value: len(group.Files)})

	batches := make([][]models.Entry, 0, len(group.Files))
	var sourceFiles []string
	for _, file := range group.Files {
		entries, err := parse(file)
		if err != nil {
			ba.logger.WithError(err).Error("Failed to parse file",
				logging.Field{Key: logging.FieldFile, Value: file})
			continue
		}

		ba.logger.Debug("Loaded entries from file",
			logging.Field{Key: logging.FieldCount, Value: len(entries)},
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})

		batches = append(batches, entries)
		sourceFiles = append(sourceFiles, filepath.Base(file))
	}

	combined := CombineAndSort(batches)
	ba.DetectAndLogOverlaps(combined, group.Source)
	group.DateRange = group.DateRange.Merge(CalculateDateRange(combined))

	ba.logger.Info("Aggregated entries",
		logging.Field{Key: logging.FieldCount, Value: len(combined)},
		logging.Field{Key: logging.FieldSource, Value: string(group.Source)},
		logging.Field{Key: "source_files", Value: strings.Join(sourceFiles, ", ")})

	return combined
}

// DetectAndLogOverlaps warns about entries sharing date, amount, merchant
// and statement, as happens when two exports cover overlapping periods.
// Nothing is removed. It returns the number of repeated entries.
func (ba *BatchAggregator) DetectAndLogOverlaps(entries []models.Entry, source models.Source) int {
	type overlapKey struct {
		date, amount, merchant, statement string
	}

	seen := make(map[overlapKey]bool, len(entries))
	repeats := 0
	for _, e := range entries {
		key := overlapKey{
			date:      e.Date.Format("2006-01-02"),
			amount:    e.Amount.StringFixed(2),
			merchant:  strings.ToLower(strings.TrimSpace(e.Merchant)),
			statement: e.OriginalStatement,
		}
		if !seen[key] {
			seen[key] = true
			continue
		}
		repeats++
		ba.logger.Warn("Potential duplicate entry",
			logging.Field{Key: logging.FieldSource, Value: string(source)},
			logging.Field{Key: "date", Value: key.date},
			logging.Field{Key: "amount", Value: key.amount},
			logging.Field{Key: logging.FieldMerchant, Value: e.Merchant})
	}

	if repeats > 0 {
		ba.logger.Warn("Found potential duplicate entries",
			logging.Field{Key: logging.FieldCount, Value: repeats},
			logging.Field{Key: logging.FieldSource, Value: string(source)})
	}
	return repeats
}

// GenerateOutputFilename creates a filename for a combined output.
// Format: {source}_{start_date}_{end_date}.csv
func (ba *BatchAggregator) GenerateOutputFilename(source models.Source, dateRange DateRange) string {
	if r := dateRange.String(); r != "" {
		return fmt.Sprintf("%s_%s.csv", source, r)
	}
	return fmt.Sprintf("%s.csv", source)
}
