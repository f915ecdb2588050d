// Package models holds the data types shared by the converters: the canonical
// ledger entry, its Monarch output row and the PayPal deduplication key.
package models

import (
	"time"

	"fjacquet/monarch-csv/internal/currencyutils"

	"github.com/shopspring/decimal"
)

const isoDateLayout = "2006-01-02"

// Entry is one normalized ledger line ready for Monarch. Amount is positive
// for money received and negative for money spent.
type Entry struct {
	Date              time.Time
	Merchant          string
	Category          string
	Account           string
	OriginalStatement string
	Notes             string
	Amount            decimal.Decimal
	Tags              string
}

// WithCategory returns a copy of e with the category set.
func (e Entry) WithCategory(category string) Entry {
	e.Category = category
	return e
}

// ToRow formats e in the Monarch column layout.
func (e Entry) ToRow() MonarchRow {
	return MonarchRow{
		Date:              e.Date.Format(isoDateLayout),
		Merchant:          e.Merchant,
		Category:          e.Category,
		Account:           e.Account,
		OriginalStatement: e.OriginalStatement,
		Notes:             e.Notes,
		Amount:            currencyutils.FormatAmount(e.Amount),
		Tags:              e.Tags,
	}
}

// MonarchRow is the 8-column import row. Field order is the column order.
type MonarchRow struct {
	Date              string `csv:"Date"`
	Merchant          string `csv:"Merchant"`
	Category          string `csv:"Category"`
	Account           string `csv:"Account"`
	OriginalStatement string `csv:"Original Statement"`
	Notes             string `csv:"Notes"`
	Amount            string `csv:"Amount"`
	Tags              string `csv:"Tags"`
}

// MonarchColumns lists the output header in order.
var MonarchColumns = []string{
	"Date", "Merchant", "Category", "Account", "Original Statement", "Notes", "Amount", "Tags",
}

// ToRows converts entries to output rows.
func ToRows(entries []Entry) []MonarchRow {
	rows := make([]MonarchRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.ToRow())
	}
	return rows
}

// DedupKey identifies raw records describing the same real-world transaction.
type DedupKey struct {
	Date          string
	Amount        string
	Name          string
	TransactionID string
}

// StageCounts records how many rows survived each pipeline stage of one file.
// Sources without deduplication report Deduplicated == Read.
type StageCounts struct {
	Read         int
	Deduplicated int
	Extracted    int
	Emitted      int
}

// Duplicates is the number of raw rows collapsed by deduplication.
func (c StageCounts) Duplicates() int {
	return c.Read - c.Deduplicated
}

// Skipped is the number of rows that produced no entry.
func (c StageCounts) Skipped() int {
	return c.Deduplicated - c.Extracted
}
