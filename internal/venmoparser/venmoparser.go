// Package venmoparser converts Venmo account statement exports into Monarch
// entries. A statement starts with a preamble of unknown length; the data
// region begins at the line holding the column header.
package venmoparser

import (
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

const parserName = "venmo"

// HeaderPrefixes are the starts of the header line. Some exports carry an
// empty leading column.
var HeaderPrefixes = []string{"ID,Datetime", ",ID,Datetime"}

// Row is one line of a Venmo statement.
type Row struct {
	ID            string `csv:"ID"`
	Datetime      string `csv:"Datetime"`
	Type          string `csv:"Type"`
	Status        string `csv:"Status"`
	Note          string `csv:"Note"`
	From          string `csv:"From"`
	To            string `csv:"To"`
	AmountTotal   string `csv:"Amount (total)"`
	AmountTip     string `csv:"Amount (tip)"`
	AmountTax     string `csv:"Amount (tax)"`
	AmountFee     string `csv:"Amount (fee)"`
	FundingSource string `csv:"Funding Source"`
	Destination   string `csv:"Destination"`
}

// Options controls how rows become entries.
type Options struct {
	// Account is written in the Account column.
	Account string
	// TrustSourceSign keeps the amount sign as exported. When false the sign
	// comes from the transaction type: payments are outflows and charges
	// are inflows.
	TrustSourceSign bool
	// Categorize enables rule based categories.
	Categorize bool
	// Categorizer overrides the built-in rules when set.
	Categorizer categorizer.EntryCategorizer
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Account:         models.AccountVenmo,
		TrustSourceSign: true,
		Categorize:      true,
	}
}

func (o Options) account() string {
	if strings.TrimSpace(o.Account) == "" {
		return models.AccountVenmo
	}
	return o.Account
}

func (o Options) categorizer() categorizer.EntryCategorizer {
	if o.Categorizer != nil {
		return o.Categorizer
	}
	return categorizer.Default()
}

// Extract turns one row into an entry. Rows that are not payments or charges,
// or whose amount or date cannot be read, return an error for which
// parsererror.IsRowLocal is true.
func Extract(row Row, opts Options) (models.Entry, error) {
	txType := strings.TrimSpace(row.Type)
	rawAmount := strings.TrimSpace(row.AmountTotal)
	if txType == "" {
		return models.Entry{}, missing("Type")
	}
	if rawAmount == "" {
		return models.Entry{}, missing("Amount (total)")
	}

	amount, err := currencyutils.ParseAmount(rawAmount)
	if err != nil {
		return models.Entry{}, err
	}

	var merchant string
	switch txType {
	case models.VenmoTypePayment:
		outflow := amount.IsNegative()
		if !opts.TrustSourceSign {
			outflow = true
			amount = amount.Abs().Neg()
		}
		if outflow {
			merchant = strings.TrimSpace(row.To)
		} else {
			merchant = strings.TrimSpace(row.From)
		}
	case models.VenmoTypeCharge:
		merchant = strings.TrimSpace(row.From)
		if !opts.TrustSourceSign {
			amount = amount.Abs()
		}
	default:
		return models.Entry{}, parsererror.NotApplicable(fmt.Sprintf("unsupported type %q", txType))
	}

	date, err := dateutils.ParseDate(row.Datetime, dateutils.VenmoLayouts)
	if err != nil {
		return models.Entry{}, err
	}

	note := strings.TrimSpace(row.Note)
	entry := models.Entry{
		Date:              date,
		Merchant:          merchant,
		Account:           opts.account(),
		OriginalStatement: note,
		Notes:             note,
		Amount:            amount,
	}

	if opts.Categorize {
		entry = entry.WithCategory(opts.categorizer().Categorize(categorizer.Input{
			Source:    models.SourceVenmo,
			Merchant:  merchant,
			Note:      note,
			Statement: note,
			Type:      txType,
		}))
	}

	return entry, nil
}

func missing(field string) error {
	return &parsererror.ParseError{
		Parser: parserName,
		Field:  field,
		Err:    parsererror.ErrMissingField,
	}
}

// Convert extracts every applicable row. Input order is kept.
func Convert(rows []Row, opts Options) ([]models.Entry, models.StageCounts) {
	return ConvertWithLogger(rows, opts, nil)
}

// ConvertWithLogger is Convert with skipped rows logged at debug level.
func ConvertWithLogger(rows []Row, opts Options, logger logging.Logger) ([]models.Entry, models.StageCounts) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	counts := models.StageCounts{Read: len(rows), Deduplicated: len(rows)}
	entries := make([]models.Entry, 0, len(rows))
	for i, row := range rows {
		entry, err := Extract(row, opts)
		if err != nil {
			logger.Debug("Skipping row",
				logging.Field{Key: logging.FieldRow, Value: i + 1},
				logging.Field{Key: logging.FieldReason, Value: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}
	counts.Extracted = len(entries)
	counts.Emitted = len(entries)
	return entries, counts
}

// ReadRows locates the header in r and reads the rows after it.
func ReadRows(r io.Reader) ([]Row, error) {
	return common.UnmarshalRowsFrom[Row](r, HeaderPrefixes...)
}

// Parse reads a statement from r and converts it.
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
		return nil, models.StageCounts{}, fmt.Errorf("error opening Venmo statement: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	entries, counts, err := Parse(file, opts, logger.WithField(logging.FieldFile, filePath))
	if err != nil {
		var headerErr *parsererror.HeaderNotFoundError
		if errors.As(err, &headerErr) {
			headerErr.FilePath = filePath
		}
		return nil, counts, err
	}
	return entries, counts, nil
}

// ValidateFormat reports whether filePath contains a Venmo header line.
func ValidateFormat(filePath string) (bool, error) {
	// #nosec G304 -- CLI tool requires user-provided file paths
	file, err := os.Open(filePath)
	if err != nil {
		return false, fmt.Errorf("error opening file for validation: %w", err)
	}
	defer func() { _ = file.Close() }()

	lines, err := common.ReadLines(file)
	if err != nil {
		return false, err
	}
	if _, err := common.FindHeaderIndex(lines, HeaderPrefixes...); err != nil {
		return false, nil
	}
	return true, nil
}
