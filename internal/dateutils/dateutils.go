// Package dateutils parses export timestamps and reduces them to calendar dates.
package dateutils

import (
	"regexp"
	"strings"
	"time"

	"fjacquet/monarch-csv/internal/parsererror"
)

// Common date layouts.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutUSShort  = "1/2/2006"
	DateLayoutDateTime = "2006-01-02T15:04:05"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// VenmoLayouts are the Datetime shapes found in Venmo statements.
var VenmoLayouts = []string{
	DateLayoutDateTime,
	time.RFC3339,
	DateLayoutFull,
	"2006-01-02T15:04:05.000",
	DateLayoutISO,
}

// PayPalLayouts are the Date shapes found in PayPal activity downloads.
var PayPalLayouts = []string{
	DateLayoutUS,
	DateLayoutUSShort,
	DateLayoutISO,
}

var spaces = regexp.MustCompile(`\s+`)

// ParseDate parses raw with the first matching layout and returns the
// calendar date at UTC midnight. The time of day and any zone offset are
// dropped without converting, so the date is the one printed in the export.
func ParseDate(raw string, layouts []string) (time.Time, error) {
	cleaned := CleanDateString(raw)
	if cleaned != "" {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, cleaned); err == nil {
				return TruncateToDate(t), nil
			}
		}
	}

	return time.Time{}, &parsererror.ParseError{
		Parser: "dateutils",
		Field:  "date",
		Value:  raw,
		Err:    parsererror.ErrMalformedDate,
	}
}

// TruncateToDate keeps the wall-clock calendar date of t at UTC midnight.
func TruncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
