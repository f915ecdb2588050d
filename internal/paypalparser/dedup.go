package paypalparser

import (
	"strings"

	"fjacquet/monarch-csv/internal/currencyutils"
	"fjacquet/monarch-csv/internal/dateutils"
	"fjacquet/monarch-csv/internal/models"
)

// Key returns the deduplication key of a row. The date is normalized to
// ISO form when it parses and the amount to two decimals, so cosmetic
// differences between copies of a record do not split them.
func Key(row Row) models.DedupKey {
	date := strings.TrimSpace(row.Date)
	if t, err := dateutils.ParseDate(row.Date, dateutils.PayPalLayouts); err == nil {
		date = dateutils.ToISODate(t)
	}
	return models.DedupKey{
		Date:          date,
		Amount:        currencyutils.NormalizedKey(currencyutils.ParseAmountOrZero(row.Amount)),
		Name:          strings.TrimSpace(row.Name),
		TransactionID: strings.TrimSpace(row.TransactionID),
	}
}

func isCompleted(row Row) bool {
	return strings.TrimSpace(row.Status) == models.PayPalStatusCompleted
}

func isPreApprovedBill(row Row) bool {
	return strings.TrimSpace(row.Type) == models.PayPalTypePreApprovedBill
}

// Deduplicate keeps one row per key. Within a group the first completed row
// that is not a pre-approved bill payment wins, then the first completed
// row, then the first row. A surviving pre-approved bill payment is dropped
// when a non pre-approved row with the same key also survived. Survivors
// keep the order in which their key first appeared; rows is not modified.
func Deduplicate(rows []Row) []Row {
	groups := make(map[models.DedupKey][]int, len(rows))
	order := make([]models.DedupKey, 0, len(rows))
	for i, row := range rows {
		key := Key(row)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	survivors := make([]Row, 0, len(order))
	keys := make([]models.DedupKey, 0, len(order))
	for _, key := range order {
		survivors = append(survivors, rows[pickPreferred(rows, groups[key])])
		keys = append(keys, key)
	}

	// Type is not part of the key, so grouping leaves one survivor per key
	// and this pass never drops a row.
	regular := make(map[models.DedupKey]bool, len(survivors))
	for i, row := range survivors {
		if !isPreApprovedBill(row) {
			regular[keys[i]] = true
		}
	}

	result := make([]Row, 0, len(survivors))
	for i, row := range survivors {
		if isPreApprovedBill(row) && regular[keys[i]] {
			continue
		}
		result = append(result, row)
	}
	return result
}

// pickPreferred returns the index of the row to keep among the group members.
func pickPreferred(rows []Row, members []int) int {
	firstCompleted := -1
	for _, i := range members {
		if !isCompleted(rows[i]) {
			continue
		}
		if !isPreApprovedBill(rows[i]) {
			return i
		}
		if firstCompleted < 0 {
			firstCompleted = i
		}
	}
	if firstCompleted >= 0 {
		return firstCompleted
	}
	return members[0]
}
