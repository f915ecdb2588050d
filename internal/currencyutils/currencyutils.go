// Package currencyutils normalizes monetary text from exports into signed decimals.
package currencyutils

import (
	"regexp"
	"strings"

	"fjacquet/monarch-csv/internal/parsererror"

	"github.com/shopspring/decimal"
)

// unicodeMinus maps dash and minus look-alikes to ASCII '-'.
var unicodeMinus = strings.NewReplacer(
	"−", "-", // minus sign
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"﹣", "-", // small hyphen-minus
	"－", "-", // fullwidth hyphen-minus
)

// noise matches currency markers, thousands separators and whitespace.
var noise = regexp.MustCompile(`USD|EUR|GBP|CHF|[$€£¥₣₹\s,']`)

// ParseAmount converts a raw amount such as "- $1,234.50", "($12.00)" or
// "−3.10" into a signed decimal. A parenthesized value is negative and an
// accidental double minus counts once. Anything that is not a decimal after
// cleanup yields an error wrapping parsererror.ErrMalformedAmount.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := StandardizeAmount(raw)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, malformed(raw)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, malformed(raw)
	}
	return amount, nil
}

// ParseAmountOrZero is ParseAmount for columns where a missing or unreadable
// value means zero, such as PayPal fees.
func ParseAmountOrZero(raw string) decimal.Decimal {
	amount, err := ParseAmount(raw)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// StandardizeAmount returns the cleaned text ParseAmount feeds to the decimal parser.
func StandardizeAmount(raw string) string {
	s := unicodeMinus.Replace(strings.TrimSpace(raw))
	s = noise.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "(", "-")
	s = strings.ReplaceAll(s, ")", "")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.TrimPrefix(s, "+")
	return s
}

// FormatAmount renders an amount with exactly two decimals and no separators.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// NormalizedKey renders an amount so equal values compare equal as strings
// ("10", "10.0" and "10.00" all become "10.00").
func NormalizedKey(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func malformed(raw string) error {
	return &parsererror.ParseError{
		Parser: "currencyutils",
		Field:  "amount",
		Value:  raw,
		Err:    parsererror.ErrMalformedAmount,
	}
}
