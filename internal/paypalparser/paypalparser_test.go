package paypalparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/monarch-csv/internal/common"
	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/metrics"
	"fjacquet/monarch-csv/internal/models"
	"fjacquet/monarch-csv/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const downloadHeader = `"Date","Time","TimeZone","Name","Type","Status","Currency","Amount","Fees","Total","Transaction ID","Item Title"`

var sampleDownload = strings.Join([]string{
	downloadHeader,
	`"07/01/2025","10:00:00","PDT","Lyft","General Authorization","Pending","USD","-12.50","0.00","-12.50","1AA","Ride"`,
	`"07/01/2025","10:00:05","PDT","Lyft","PreApproved Payment Bill User Payment","Completed","USD","-12.50","0.00","-12.50","1AA","Ride"`,
	`"07/01/2025","10:00:09","PDT","Lyft","Express Checkout Payment","Completed","USD","-12.50","0.00","-12.50","1AA","Ride"`,
	`"07/02/2025","08:00:00","PDT","","Bank Deposit to PP Account","Completed","USD","50.00","0.00","50.00","2BB",""`,
	`"07/03/2025","09:00:00","PDT","Jane Seller","Website Payment","Completed","USD","100.00","2.50","97.50","3CC","Old lamp"`,
}, "\n")

func row(date, name, txType, status, amount, id string) Row {
	return Row{Date: date, Name: name, Type: txType, Status: status, Amount: amount, TransactionID: id}
}

func TestExtract_PrimaryEntry(t *testing.T) {
	entries, err := Extract(Row{
		Date:          "07/03/2025",
		Name:          " Lyft ",
		Type:          "Express Checkout Payment",
		Status:        "Completed",
		Amount:        "-12.50",
		Fees:          "0.00",
		TransactionID: "9XY",
		ItemTitle:     "  Ride to airport ",
	}, "PayPal Joint")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC), e.Date)
	assert.Equal(t, "Lyft", e.Merchant)
	assert.Equal(t, models.CategoryRideShare, e.Category)
	assert.Equal(t, "PayPal Joint", e.Account)
	assert.Equal(t, "Express Checkout Payment (9XY) - Ride to airport", e.OriginalStatement)
	assert.Equal(t, "", e.Notes)
	assert.Equal(t, "-12.50", e.Amount.StringFixed(2))
}

func TestExtract_FeeRow(t *testing.T) {
	entries, err := Extract(Row{
		Date:          "07/03/2025",
		Name:          "Jane Seller",
		Type:          "Website Payment",
		Status:        "Completed",
		Amount:        "100.00",
		Fees:          "2.50",
		TransactionID: "3CC",
	}, "PayPal")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	fee := entries[1]
	assert.Equal(t, entries[0].Date, fee.Date)
	assert.Equal(t, models.PayPalFeeMerchant, fee.Merchant)
	assert.Equal(t, models.CategoryFees, fee.Category)
	assert.Equal(t, "PayPal", fee.Account)
	assert.Equal(t, "Fee for Jane Seller on 2025-07-03", fee.OriginalStatement)
	assert.Equal(t, "", fee.Notes)
	assert.Equal(t, "-2.50", fee.Amount.StringFixed(2))
}

func TestExtract_NegativeFeeStaysNegative(t *testing.T) {
	entries, err := Extract(row("07/03/2025", "Shop", "Payment", "Completed", "-20", "X"), "PayPal")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	r := row("07/03/2025", "Shop", "Payment", "Completed", "-20", "X")
	r.Fees = "-0.89"
	entries, err = Extract(r, "PayPal")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "-0.89", entries[1].Amount.StringFixed(2))
}

func TestExtract_SelfTransfers(t *testing.T) {
	tests := []struct {
		name         string
		row          Row
		wantMerchant string
		wantCategory string
		wantStmt     string
	}{
		{
			name:         "bank deposit without name",
			row:          row("07/02/2025", "", " Bank Deposit to PP Account ", "Completed", "50", "2BB"),
			wantMerchant: models.PayPalTransferMerchant,
			wantCategory: models.CategoryPayPalTransfer,
			wantStmt:     models.PayPalTypeBankDeposit,
		},
		{
			name:         "bank deposit with a name is a normal row",
			row:          row("07/02/2025", "Acme Bank", "Bank Deposit to PP Account", "Completed", "50", "2BB"),
			wantMerchant: "Acme Bank",
			wantCategory: "",
			wantStmt:     "Bank Deposit to PP Account (2BB)",
		},
		{
			name:         "card deposit",
			row:          row("07/02/2025", "Visa", "General Card Deposit", "Completed", "25", "4DD"),
			wantMerchant: models.PayPalTransferMerchant,
			wantCategory: models.CategoryPayPalTransfer,
			wantStmt:     models.PayPalTypeCardDeposit,
		},
		{
			name:         "withdrawal categorized from statement",
			row:          row("07/02/2025", "", "User Initiated Withdrawal", "Completed", "-80", "5EE"),
			wantMerchant: "",
			wantCategory: models.CategoryPayPalTransfer,
			wantStmt:     "User Initiated Withdrawal (5EE)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := Extract(tt.row, "PayPal")
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMerchant, entries[0].Merchant)
			assert.Equal(t, tt.wantCategory, entries[0].Category)
			assert.Equal(t, tt.wantStmt, entries[0].OriginalStatement)
		})
	}
}

func TestExtract_Defaults(t *testing.T) {
	t.Run("unparseable amount and fee become zero", func(t *testing.T) {
		r := row("7/4/2025", "Someone", "Payment", "Completed", "n/a", "")
		r.Fees = "???"
		entries, err := Extract(r, "PayPal")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Amount.IsZero())
		assert.Equal(t, "Payment", entries[0].OriginalStatement)
	})

	t.Run("unparseable date skips the row", func(t *testing.T) {
		_, err := Extract(row("not a date", "x", "Payment", "Completed", "1", ""), "PayPal")
		assert.ErrorIs(t, err, parsererror.ErrMalformedDate)
		assert.True(t, parsererror.IsRowLocal(err))
	})

	t.Run("blank account uses default label", func(t *testing.T) {
		entries, err := Extract(row("07/04/2025", "x", "Payment", "Completed", "1", ""), "")
		require.NoError(t, err)
		assert.Equal(t, models.AccountPayPal, entries[0].Account)
	})
}

func TestStatement(t *testing.T) {
	assert.Equal(t, "", Statement(Row{}))
	assert.Equal(t, "(ID1)", Statement(Row{TransactionID: "ID1"}))
	assert.Equal(t, "Payment - Book", Statement(Row{Type: "Payment", ItemTitle: " Book "}))
}

func TestConvert_Counts(t *testing.T) {
	rows := []Row{
		row("07/01/2025", "Lyft", "Express Checkout Payment", "Completed", "-12.50", "1AA"),
		row("07/01/2025", "Lyft", "Express Checkout Payment", "Pending", "-12.5", "1AA"),
		row("bad", "Broken", "Payment", "Completed", "1", "9ZZ"),
		{Date: "07/03/2025", Name: "Jane", Type: "Payment", Status: "Completed", Amount: "100", Fees: "2.50", TransactionID: "3CC"},
	}

	entries, counts := Convert(rows, DefaultOptions())

	assert.Equal(t, models.StageCounts{Read: 4, Deduplicated: 3, Extracted: 2, Emitted: 3}, counts)
	assert.Equal(t, 1, counts.Duplicates())
	assert.Equal(t, 1, counts.Skipped())
	require.Len(t, entries, 3)
	assert.Equal(t, "Lyft", entries[0].Merchant)
	assert.Equal(t, "Jane", entries[1].Merchant)
	assert.Equal(t, models.PayPalFeeMerchant, entries[2].Merchant)
}

func TestParse_EndToEnd(t *testing.T) {
	entries, counts, err := Parse(strings.NewReader("\xef\xbb\xbf"+sampleDownload), DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, counts.Read)
	assert.Equal(t, 3, counts.Deduplicated)

	var buf bytes.Buffer
	require.NoError(t, common.WriteEntries(&buf, entries, common.WriteOptions{Delimiter: ','}))

	want := "2025-07-01,Lyft,Taxi & Ride Shares,PayPal,Express Checkout Payment (1AA) - Ride,,-12.50,\n" +
		"2025-07-02,Transfer,Transfer for paypal,PayPal,Bank Deposit to PP Account,,50.00,\n" +
		"2025-07-03,Jane Seller,,PayPal,Website Payment (3CC) - Old lamp,,100.00,\n" +
		"2025-07-03,PayPal,Fees,PayPal,Fee for Jane Seller on 2025-07-03,,-2.50,\n"
	assert.Equal(t, want, buf.String())
}

func TestParse_HeaderOnly(t *testing.T) {
	entries, counts, err := Parse(strings.NewReader(downloadHeader+"\n"), DefaultOptions(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, models.StageCounts{}, counts)
}

func TestParse_RejectsOtherFormats(t *testing.T) {
	venmoStatement := "Account Statement - (@Me) ,,,,\n" +
		",ID,Datetime,Type,Status,Note,From,To,Amount (total)\n" +
		",4001,2025-07-04T12:00:00,Charge,Complete,pizza,Alice,Me,+ $15.00\n"

	tests := []struct {
		name        string
		input       string
		wantMessage string
	}{
		{name: "venmo statement", input: venmoStatement, wantMessage: "missing columns Date, Name"},
		{name: "plain text", input: "hello world\nfoo bar\n", wantMessage: "missing columns"},
		{name: "header without status", input: `"Date","Name","Type","Amount","Transaction ID"` + "\n", wantMessage: "missing columns Status"},
		{name: "empty input", input: "", wantMessage: "empty file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, counts, err := Parse(strings.NewReader(tt.input), DefaultOptions(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, parsererror.ErrHeaderNotFound)
			assert.Contains(t, err.Error(), tt.wantMessage)
			assert.False(t, parsererror.IsRowLocal(err))
			assert.Nil(t, entries)
			assert.Equal(t, models.StageCounts{}, counts)
		})
	}
}

func TestParseFile_FormatErrorCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0600))

	_, _, err := ParseFile(path, DefaultOptions(), nil)
	var formatErr *parsererror.InvalidFormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, path, formatErr.FilePath)
	assert.Equal(t, ExpectedFormat, formatErr.ExpectedFormat)
}

func TestMissingColumns(t *testing.T) {
	assert.Empty(t, MissingColumns([]string{" Date", "Name", "Type", "Status", "Amount", "Transaction ID", "Fees"}))
	assert.Equal(t, []string{"Status", "Transaction ID"}, MissingColumns([]string{"Date", "Name", "Type", "Amount"}))
}

func TestValidateFormat(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "paypal.csv")
	venmo := filepath.Join(dir, "venmo.csv")
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(good, []byte("\xef\xbb\xbf"+sampleDownload), 0600))
	require.NoError(t, os.WriteFile(venmo, []byte(",ID,Datetime,Type,Status,Note,From,To,Amount (total)\n"), 0600))
	require.NoError(t, os.WriteFile(empty, nil, 0600))

	for path, want := range map[string]bool{good: true, venmo: false, empty: false} {
		ok, err := ValidateFormat(path)
		require.NoError(t, err)
		assert.Equal(t, want, ok, path)
	}

	_, err := ValidateFormat(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestAdapter_ConvertToCSV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "paypal.csv")
	output := filepath.Join(dir, "monarch.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleDownload), 0600))

	logger := logging.NewMockLogger()
	m := metrics.NewMetrics()
	adapter := NewAdapter(Options{Account: "PayPal Business"}, logger)
	adapter.SetMetrics(m)
	adapter.SetWriteOptions(common.WriteOptions{Delimiter: ',', IncludeHeader: true})

	require.NoError(t, adapter.ConvertToCSV(input, output))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Join(models.MonarchColumns, ","), lines[0])
	assert.Contains(t, lines[1], "PayPal Business")

	assert.Equal(t, models.SourcePayPal, adapter.Source())
	assert.Equal(t, float64(5), m.Rows(models.SourcePayPal, metrics.StageRead))
	assert.Equal(t, float64(3), m.Rows(models.SourcePayPal, metrics.StageDeduplicated))
	assert.Equal(t, float64(4), m.Rows(models.SourcePayPal, metrics.StageEmitted))
	dups, ok := logger.FieldValue("Conversion stages completed", "duplicates")
	require.True(t, ok)
	assert.Equal(t, 2, dups)
}
