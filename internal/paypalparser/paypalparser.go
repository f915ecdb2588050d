// Package paypalparser converts PayPal activity downloads into Monarch
// entries. Raw rows are deduplicated before extraction, and a row with a
// non-zero fee yields a second entry for the fee.
package paypalparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/monarch-csv/internal/categorizer"
	"fjacquet/monarch-csv/internal/common"
	"fjacquet/monarch-csv/internal/currencyutils"
	"fjacquet/monarch-csv/internal/dateutils"
	"fjacquet/monarch-csv/internal/logging"
	"fjacquet/monarch-csv/internal/models"
	"fjacquet/monarch-csv/internal/parsererror"
)

// RequiredColumns must all be present in the header of a PayPal download.
var RequiredColumns = []string{"Date", "Name", "Type", "Status", "Amount", "Transaction ID"}

// Row is one line of a PayPal activity download.
type Row struct {
	Date          string `csv:"Date"`
	Time          string `csv:"Time"`
	TimeZone      string `csv:"TimeZone"`
	Name          string `csv:"Name"`
	Type          string `csv:"Type"`
	Status        string `csv:"Status"`
	Currency      string `csv:"Currency"`
	Amount        string `csv:"Amount"`
	Fees          string `csv:"Fees"`
	Total         string `csv:"Total"`
	TransactionID string `csv:"Transaction ID"`
	ItemTitle     string `csv:"Item Title"`
}

// Options controls how rows become entries.
type Options struct {
	// Account is written in the Account column.
	Account string
	// Categorizer overrides the built-in rules when set.
	Categorizer categorizer.EntryCategorizer
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{Account: models.AccountPayPal}
}

func (o Options) account() string {
	if strings.TrimSpace(o.Account) == "" {
		return models.AccountPayPal
	}
	return o.Account
}

func (o Options) categorizer() categorizer.EntryCategorizer {
	if o.Categorizer != nil {
		return o.Categorizer
	}
	return categorizer.Default()
}

// Extract turns one row into its entry followed by a fee entry when the fee
// is non-zero. Only an unreadable date makes the row fail.
func Extract(row Row, account string) ([]models.Entry, error) {
	return ExtractWithOptions(row, Options{Account: account})
}

// ExtractWithOptions is Extract with a configurable categorizer.
func ExtractWithOptions(row Row, opts Options) ([]models.Entry, error) {
	date, err := dateutils.ParseDate(row.Date, dateutils.PayPalLayouts)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(row.Name)
	txType := strings.TrimSpace(row.Type)
	amount := currencyutils.ParseAmountOrZero(row.Amount)
	fee := currencyutils.ParseAmountOrZero(row.Fees)
	statement := Statement(row)

	entry := models.Entry{
		Date:    date,
		Account: opts.account(),
		Amount:  amount,
	}

	if isSelfTransfer(txType, name) {
		entry.Merchant = models.PayPalTransferMerchant
		entry.Category = models.CategoryPayPalTransfer
		entry.OriginalStatement = txType
	} else {
		entry.Merchant = name
		entry.OriginalStatement = statement
		entry.Category = opts.categorizer().Categorize(categorizer.Input{
			Source:    models.SourcePayPal,
			Merchant:  name,
			Statement: statement,
			Type:      txType,
		})
	}

	entries := []models.Entry{entry}
	if !fee.IsZero() {
		entries = append(entries, models.Entry{
			Date:              date,
			Merchant:          models.PayPalFeeMerchant,
			Category:          models.CategoryFees,
			Account:           entry.Account,
			OriginalStatement: fmt.Sprintf(models.PayPalFeeStatementTemplate, entry.Merchant, dateutils.ToISODate(date)),
			Amount:            fee.Abs().Neg(),
		})
	}
	return entries, nil
}

// Statement builds the original statement text: the type, the transaction
// id in parentheses and the item title after a dash, each when present.
func Statement(row Row) string {
	parts := make([]string, 0, 3)
	if t := strings.TrimSpace(row.Type); t != "" {
		parts = append(parts, t)
	}
	if id := strings.TrimSpace(row.TransactionID); id != "" {
		parts = append(parts, "("+id+")")
	}
	if title := strings.TrimSpace(row.ItemTitle); title != "" {
		parts = append(parts, "- "+title)
	}
	return strings.Join(parts, " ")
}

// isSelfTransfer reports moves between the user's own bank or card and the
// PayPal balance.
func isSelfTransfer(txType, name string) bool {
	switch txType {
	case models.PayPalTypeBankDeposit:
		return name == ""
	case models.PayPalTypeCardDeposit:
		return true
	}
	return false
}

// Convert deduplicates rows and extracts every applicable one. Entries of a
// row are emitted together, primary entry first.
func Convert(rows []Row, opts Options) ([]models.Entry, models.StageCounts) {
	return ConvertWithLogger(rows, opts, nil)
}

// ConvertWithLogger is Convert with skipped rows logged at debug level.
func ConvertWithLogger(rows []Row, opts Options, logger logging.Logger) ([]models.Entry, models.StageCounts) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	unique := Deduplicate(rows)
	counts := models.StageCounts{Read: len(rows), Deduplicated: len(unique)}

	entries := make([]models.Entry, 0, len(unique))
	for i, row := range unique {
		extracted, err := ExtractWithOptions(row, opts)
		if err != nil {
			logger.Debug("Skipping row",
				logging.Field{Key: logging.FieldRow, Value: i + 1},
				logging.Field{Key: logging.FieldReason, Value: err.Error()})
			continue
		}
		counts.Extracted++
		entries = append(entries, extracted...)
	}
	counts.Emitted = len(entries)
	return entries, counts
}

// ExpectedFormat names the export in format errors.
const ExpectedFormat = "PayPal activity download"

// MissingColumns returns the required columns absent from header.
func MissingColumns(header []string) []string {
	columns := make(map[string]bool, len(header))
	for _, col := range header {
		columns[strings.TrimSpace(col)] = true
	}
	var missing []string
	for _, required := range RequiredColumns {
		if !columns[required] {
			missing = append(missing, required)
		}
	}
	return missing
}

// ReadRows reads a download whose header is on the first line. A first line
// without the required columns is an InvalidFormatError.
func ReadRows(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(common.NewBOMReader(r))
	if err != nil {
		return nil, fmt.Errorf("error reading PayPal download: %w", err)
	}

	header, err := common.NewLenientCSVReader(bytes.NewReader(data)).Read()
	if err == io.EOF {
		return nil, &parsererror.InvalidFormatError{ExpectedFormat: ExpectedFormat, Msg: "empty file"}
	}
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	if missing := MissingColumns(header); len(missing) > 0 {
		return nil, &parsererror.InvalidFormatError{
			ExpectedFormat: ExpectedFormat,
			Msg:            "missing columns " + strings.Join(missing, ", "),
		}
	}

	return common.UnmarshalRows[Row](bytes.NewReader(data))
}

// Parse reads a download from r and converts it.
func Parse(r io.Reader, opts Options, logger logging.Logger) ([]models.Entry, models.StageCounts, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, models.StageCounts{}, err
	}
	entries, counts := ConvertWithLogger(rows, opts, logger)
	return entries, counts, nil
}

// ParseFile opens filePath and converts it.
func ParseFile(filePath string, opts Options, logger logging.Logger) ([]models.Entry, models.StageCounts, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	// #nosec G304 -- CLI tool requires user-provided file paths
	file, err := os.Open(filePath)
	if err != nil {
		return nil, models.StageCounts{}, fmt.Errorf("error opening PayPal download: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	entries, counts, err := Parse(file, opts, logger.WithField(logging.FieldFile, filePath))
	if err != nil {
		var formatErr *parsererror.InvalidFormatError
		if errors.As(err, &formatErr) {
			formatErr.FilePath = filePath
		}
		return nil, counts, err
	}
	return entries, counts, nil
}

// ValidateFormat reports whether the first line of filePath holds the
// PayPal columns.
func ValidateFormat(filePath string) (bool, error) {
	// #nosec G304 -- CLI tool requires user-provided file paths
	file, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("error opening file for validation: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := common.NewLenientCSVReader(common.NewBOMReader(file))
	header, err := reader.Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading CSV header: %w", err)
	}

	return len(MissingColumns(header)) == 0, nil
}
