// Package batch handles batch processing of files
package batch

import (
	"errors"
	"fmt"
	"path/filepath"

	"fjacquet/monarch-csv/cmd/common"
	"fjacquet/monarch-csv/cmd/root"
	"fjacquet/monarch-csv/internal/batch"
	"fjacquet/monarch-csv/internal/container"
	"fjacquet/monarch-csv/internal/fileutils"
	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/metrics"
	"fjacquet/monarch-csv/internal/models"
	"fjacquet/monarch-csv/internal/parser"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// unknownSource labels files no parser recognizes in the metrics.
const unknownSource models.Source = "unknown"

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch [dir...]",
	Short: "Batch process a directory of Venmo and PayPal exports",
	Long: `Batch process every CSV file found in the input directories and write one
Monarch import file per source into the output directory.

Each file's format is detected from its header. Files that are neither a Venmo
statement nor a PayPal download are skipped. Output files are named after the
source and the covered date range, e.g. venmo_2025-07-01_2025-07-31.csv.

Example:
  monarch-csv batch -i exports/ -o monarch/`,
	Run: batchFunc,
}

func init() {
	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) {
	logger := root.GetLogger()

	inputs, err := root.InputFiles(args)
	if err != nil {
		logger.Fatalf("Error listing input files: %v", err)
	}

	outputDir := root.SharedFlags.Output
	if outputDir == "" {
		outputDir = "."
	}

	appContainer := root.GetContainer()
	if appContainer == nil {
		logger.Fatal("Container not initialized")
	}

	count, err := batchConvert(appContainer, inputs, outputDir, root.ProcessOptions(), logger)
	if err != nil {
		logger.Fatalf("Error during batch conversion: %v", err)
	}

	logger.Info(fmt.Sprintf("Batch processing completed. %d Monarch files created.", count))
}

// batchConvert groups files by detected source and writes one combined file
// per source into outputDir. It returns the number of files written.
func batchConvert(c *container.Container, files []string, outputDir string, opts common.Options, logger logging.Logger) (int, error) {
	if len(files) == 0 {
		logger.Warn("No CSV files found in input")
		return 0, nil
	}
	if !fileutils.DirectoryExists(outputDir) && fileutils.FileExists(outputDir) {
		return 0, fmt.Errorf("output must be a directory: %s", outputDir)
	}

	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	// Detection already checked each file's format.
	opts.Validate = false
	log := logger.WithField(logging.FieldRunID, opts.RunID)

	aggregator := batch.NewBatchAggregator(log)
	detect := func(filePath string) (models.Source, bool) {
		source, ok := c.DetectSource(filePath)
		if !ok {
			opts.Metrics.IncrFile(unknownSource, metrics.OutcomeSkipped)
		}
		return source, ok
	}
	groups := aggregator.GroupFilesBySource(files, detect)

	written := 0
	for _, group := range groups {
		p, err := c.GetParser(parser.ParserType(group.Source))
		if err != nil {
			log.WithError(err).Error("No parser for source",
				logging.Field{Key: logging.FieldSource, Value: string(group.Source)})
			continue
		}

		log.Info("Processing source group",
			logging.Field{Key: logging.FieldSource, Value: string(group.Source)},
			logging.Field{Key: "files", Value: len(group.Files)})

		result, err := common.ConvertFiles(p, group.Files, opts, logger)
		if err != nil {
			if errors.Is(err, common.ErrNothingConverted) {
				log.Error("No file of the group could be converted",
					logging.Field{Key: logging.FieldSource, Value: string(group.Source)})
				continue
			}
			return written, err
		}
		if len(result.Entries) == 0 {
			log.Warn("No entries found for source group",
				logging.Field{Key: logging.FieldSource, Value: string(group.Source)})
			continue
		}

		outputPath := filepath.Join(outputDir, aggregator.GenerateOutputFilename(group.Source, result.DateRange))
		if err := common.WriteResult(result, outputPath, opts.Write, log); err != nil {
			log.WithError(err).Error("Failed to write combined file",
				logging.Field{Key: logging.FieldSource, Value: string(group.Source)},
				logging.Field{Key: logging.FieldOutputFile, Value: outputPath})
			continue
		}
		written++
	}

	return written, nil
}
