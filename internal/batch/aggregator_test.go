package batch

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cryptoRandIntn returns a random int in [0, n) using crypto/rand
func cryptoRandIntn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func entry(d int, merchant string, amount int64) models.Entry {
	return models.Entry{
		Date:     day(d),
		Merchant: merchant,
		Account:  "Venmo",
		Amount:   decimal.NewFromInt(amount),
	}
}

func TestCombineAndSort(t *testing.T) {
	first := []models.Entry{entry(5, "Bob", -20), entry(3, "Carol", 4)}
	second := []models.Entry{entry(4, "Alice", 15), entry(3, "Dan", 1), entry(5, "Eve", 2)}
	firstCopy := append([]models.Entry(nil), first...)

	got := CombineAndSort([][]models.Entry{first, second})

	merchants := make([]string, 0, len(got))
	for _, e := range got {
		merchants = append(merchants, e.Merchant)
	}
	assert.Equal(t, []string{"Carol", "Dan", "Alice", "Bob", "Eve"}, merchants)
	assert.Equal(t, firstCopy, first, "input batches are not modified")
}

func TestCombineAndSort_Empty(t *testing.T) {
	assert.Empty(t, CombineAndSort(nil))
	assert.Empty(t, CombineAndSort([][]models.Entry{nil, {}}))
}

// Property: the combined output holds every input entry, is ordered by date,
// and entries sharing a date keep their input order.
func TestProperty_CombineAndSortIsStableByDate(t *testing.T) {
	for i := 0; i < 50; i++ {
		t.Run(fmt.Sprintf("iteration_%d", i), func(t *testing.T) {
			numBatches := cryptoRandIntn(4) + 1
			var batches [][]models.Entry
			seq := 0
			for b := 0; b < numBatches; b++ {
				size := cryptoRandIntn(8)
				batch := make([]models.Entry, 0, size)
				for k := 0; k < size; k++ {
					// The merchant carries the input position.
					batch = append(batch, entry(cryptoRandIntn(5)+1, fmt.Sprintf("%04d", seq), int64(k)))
					seq++
				}
				batches = append(batches, batch)
			}

			got := CombineAndSort(batches)

			require.Len(t, got, seq)
			for k := 1; k < len(got); k++ {
				prev, cur := got[k-1], got[k]
				require.False(t, cur.Date.Before(prev.Date), "not sorted at %d", k)
				if cur.Date.Equal(prev.Date) {
					require.Less(t, prev.Merchant, cur.Merchant, "tie order changed at %d", k)
				}
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, "", DateRange{}.String())

	r := DateRange{Start: day(3), End: day(9)}
	assert.Equal(t, "2025-07-03_2025-07-09", r.String())

	merged := r.Merge(DateRange{Start: day(1), End: day(5)})
	assert.Equal(t, DateRange{Start: day(1), End: day(9)}, merged)

	assert.Equal(t, r, DateRange{}.Merge(r))
	assert.Equal(t, r, r.Merge(DateRange{}))
}

func TestCalculateDateRange(t *testing.T) {
	assert.Equal(t, DateRange{}, CalculateDateRange(nil))

	got := CalculateDateRange([]models.Entry{entry(7, "a", 1), entry(2, "b", 1), entry(9, "c", 1)})
	assert.Equal(t, DateRange{Start: day(2), End: day(9)}, got)
}

func TestGroupFilesBySource(t *testing.T) {
	logger := logging.NewMockLogger()
	aggregator := NewBatchAggregator(logger)

	detect := func(path string) (models.Source, bool) {
		switch path {
		case "v1.csv", "v2.csv":
			return models.SourceVenmo, true
		case "p1.csv":
			return models.SourcePayPal, true
		}
		return "", false
	}

	groups := aggregator.GroupFilesBySource([]string{"v1.csv", "p1.csv", "notes.csv", "v2.csv"}, detect)

	require.Len(t, groups, 2)
	assert.Equal(t, models.SourcePayPal, groups[0].Source)
	assert.Equal(t, []string{"p1.csv"}, groups[0].Files)
	assert.Equal(t, models.SourceVenmo, groups[1].Source)
	assert.Equal(t, []string{"v1.csv", "v2.csv"}, groups[1].Files)
	assert.True(t, logger.HasEntry("WARN", "Unrecognized export format, skipping"))
}

func TestAggregateEntries(t *testing.T) {
	logger := logging.NewMockLogger()
	aggregator := NewBatchAggregator(logger)

	files := map[string][]models.Entry{
		"june.csv": {entry(20, "Bob", -20), entry(1, "Alice", 15)},
		"july.csv": {entry(20, "Bob", -20), entry(25, "Carol", 5)},
	}
	parse := func(path string) ([]models.Entry, error) {
		if e, ok := files[path]; ok {
			return e, nil
		}
		return nil, errors.New("header not found")
	}

	group := &FileGroup{Source: models.SourceVenmo, Files: []string{"june.csv", "broken.csv", "july.csv"}}
	got := aggregator.AggregateEntries(group, parse)

	require.Len(t, got, 4)
	assert.Equal(t, "Alice", got[0].Merchant)
	assert.Equal(t, "Carol", got[3].Merchant)
	assert.Equal(t, DateRange{Start: day(1), End: day(25)}, group.DateRange)
	assert.True(t, logger.HasEntry("ERROR", "Failed to parse file"))
	assert.True(t, logger.HasEntry("WARN", "Potential duplicate entry"))
}

func TestDetectAndLogOverlaps(t *testing.T) {
	aggregator := NewBatchAggregator(nil)

	entries := []models.Entry{entry(1, "Bob", -20), entry(1, "bob ", -20), entry(1, "Bob", -21)}
	assert.Equal(t, 1, aggregator.DetectAndLogOverlaps(entries, models.SourceVenmo))
	assert.Equal(t, 0, aggregator.DetectAndLogOverlaps(nil, models.SourceVenmo))
}

func TestGenerateOutputFilename(t *testing.T) {
	aggregator := NewBatchAggregator(nil)

	assert.Equal(t, "venmo_2025-07-01_2025-07-31.csv",
		aggregator.GenerateOutputFilename(models.SourceVenmo, DateRange{Start: day(1), End: day(31)}))
	assert.Equal(t, "paypal.csv", aggregator.GenerateOutputFilename(models.SourcePayPal, DateRange{}))
}
