package batch

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/monarch-csv/cmd/common"
	internalcommon "fjacquet/monarch-csv/internal/common"
	"fjacquet/monarch-csv/internal/config"
	"fjacquet/monarch-csv/internal/container"
	"fjacquet/monarch-csv/internal/fileutils"
	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/metrics"
	"fjacquet/monarch-csv/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const venmoStatement = `Account Statement - (@Me) ,,,,,,,,,,,
,ID,Datetime,Type,Status,Note,From,To,Amount (total),Amount (fee),Funding Source,Destination
,4002,2025-07-05T09:30:00,Payment,Complete,tickets,Me,Bob,- $20.00,,Venmo balance,
,4001,2025-07-04T12:00:00,Charge,Complete,lunch,Alice,Me,+ $15.00,,,Venmo balance
`

const paypalDownload = `Date,Time,TimeZone,Name,Type,Status,Currency,Amount,Fees,Total,Transaction ID,Item Title
07/02/2025,10:00:00,PDT,Lyft,Express Checkout Payment,Completed,USD,-12.50,0.00,-12.50,1AA,Ride
`

func TestBatchCommand_CommandMetadata(t *testing.T) {
	assert.Contains(t, Cmd.Use, "batch")
	assert.Contains(t, Cmd.Short, "Batch process")
	assert.Contains(t, Cmd.Long, "Example")
	assert.NotNil(t, Cmd.Run)
}

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	c, err := container.NewContainerWithLogger(config.DefaultConfig(), logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func writeInputs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"venmo.csv":    venmoStatement,
		"Download.CSV": paypalDownload,
		"notes.csv":    "a,b\n1,2\n",
		"readme.txt":   "ignored",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	return dir
}

func TestBatchConvert_OneFilePerSource(t *testing.T) {
	inputDir := writeInputs(t)
	outputDir := filepath.Join(t.TempDir(), "out")
	files, err := fileutils.ListCSVFiles(inputDir)
	require.NoError(t, err)
	require.Len(t, files, 3)

	c := newContainer(t)
	logger := logging.NewMockLogger()
	opts := common.Options{Write: internalcommon.WriteOptions{Delimiter: ','}, Metrics: c.GetMetrics()}

	count, err := batchConvert(c, files, outputDir, opts, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	venmoOut, err := os.ReadFile(filepath.Join(outputDir, "venmo_2025-07-04_2025-07-05.csv"))
	require.NoError(t, err)
	assert.Equal(t, "2025-07-04,Alice,,Venmo,lunch,lunch,15.00,\n2025-07-05,Bob,,Venmo,tickets,tickets,-20.00,\n", string(venmoOut))

	paypalOut, err := os.ReadFile(filepath.Join(outputDir, "paypal_2025-07-02_2025-07-02.csv"))
	require.NoError(t, err)
	assert.Equal(t, "2025-07-02,Lyft,Taxi & Ride Shares,PayPal,Express Checkout Payment (1AA) - Ride,,-12.50,\n", string(paypalOut))

	assert.True(t, logger.HasEntry("WARN", "Unrecognized export format, skipping"))
	assert.Equal(t, float64(1), c.GetMetrics().Files(unknownSource, metrics.OutcomeSkipped))
	assert.Equal(t, float64(1), c.GetMetrics().Files(models.SourceVenmo, metrics.OutcomeConverted))
	assert.Equal(t, float64(1), c.GetMetrics().Files(models.SourcePayPal, metrics.OutcomeConverted))
}

func TestBatchConvert_SharesRunID(t *testing.T) {
	files, err := fileutils.ListCSVFiles(writeInputs(t))
	require.NoError(t, err)

	logger := logging.NewMockLogger()
	_, err = batchConvert(newContainer(t), files, t.TempDir(), common.Options{RunID: "run-1"}, logger)
	require.NoError(t, err)

	for _, e := range logger.GetEntriesByLevel("INFO") {
		if e.Message != "Combined Monarch import file saved" {
			continue
		}
		var runID interface{}
		for _, f := range e.Fields {
			if f.Key == logging.FieldRunID {
				runID = f.Value
			}
		}
		assert.Equal(t, "run-1", runID)
	}
}

func TestBatchConvert_NoFiles(t *testing.T) {
	logger := logging.NewMockLogger()
	count, err := batchConvert(newContainer(t), nil, t.TempDir(), common.Options{}, logger)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.True(t, logger.HasEntry("WARN", "No CSV files found in input"))
}

func TestBatchConvert_OutputIsAFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "file.csv")
	require.NoError(t, os.WriteFile(out, []byte("x"), 0600))

	_, err := batchConvert(newContainer(t), []string{out}, out, common.Options{}, logging.NewMockLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output must be a directory")
}
