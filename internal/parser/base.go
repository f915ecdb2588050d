// Package parser provides the base parser functionality and common interfaces.
package parser

import (
	"fjacquet/monarch-csv/internal/common"
	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/metrics"
	"fjacquet/monarch-csv/internal/models"
)

// BaseParser holds what every adapter shares: a logger, optional metrics
// and the output options.
//
// Adapters embed it:
//
//	type Adapter struct {
//		parser.BaseParser
//		opts Options
//	}
type BaseParser struct {
	logger       logging.Logger
	metrics      *metrics.Metrics
	writeOptions common.WriteOptions
}

// NewBaseParser creates a BaseParser. A nil logger is replaced by one that
// discards output.
func NewBaseParser(logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	return BaseParser{
		logger:       logger,
		writeOptions: common.DefaultWriteOptions(),
	}
}

// SetLogger implements LoggerConfigurable. Nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// SetMetrics attaches the pipeline counters. Nil disables recording.
func (b *BaseParser) SetMetrics(m *metrics.Metrics) {
	b.metrics = m
}

// GetMetrics returns the attached counters, possibly nil.
func (b *BaseParser) GetMetrics() *metrics.Metrics {
	return b.metrics
}

// SetWriteOptions sets the delimiter and header policy used by WriteToCSV.
func (b *BaseParser) SetWriteOptions(opts common.WriteOptions) {
	b.writeOptions = opts
}

// WriteOptions returns the options used by WriteToCSV.
func (b *BaseParser) WriteOptions() common.WriteOptions {
	return b.writeOptions
}

// WriteToCSV writes entries to csvFile in the Monarch layout.
func (b *BaseParser) WriteToCSV(entries []models.Entry, csvFile string) error {
	b.logger.Info("Writing entries to CSV using common writer",
		logging.Field{Key: logging.FieldOutputFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(entries)})

	return common.WriteEntriesToFile(csvFile, entries, b.writeOptions, b.logger)
}

// LogStageCounts logs and records the stage counts of one file.
func (b *BaseParser) LogStageCounts(source models.Source, filePath string, counts models.StageCounts) {
	b.logger.Info("Conversion stages completed",
		logging.Field{Key: logging.FieldSource, Value: string(source)},
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: "read", Value: counts.Read},
		logging.Field{Key: "duplicates", Value: counts.Duplicates()},
		logging.Field{Key: "skipped", Value: counts.Skipped()},
		logging.Field{Key: "emitted", Value: counts.Emitted})

	b.metrics.RecordStages(source, counts)
}
