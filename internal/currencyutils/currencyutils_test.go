package currencyutils

import (
	"errors"
	"testing"

	"fjacquet/monarch-csv/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "12.34", "12.34"},
		{"negative", "-12.34", "-12.34"},
		{"dollar with thousands", "$1,234.50", "1234.50"},
		{"parenthesized negative", "($1,234.50)", "-1234.50"},
		{"unicode minus", "−12.00", "-12.00"},
		{"en dash", "–7.25", "-7.25"},
		{"venmo outgoing", "- $20.00", "-20.00"},
		{"venmo incoming", "+ $15.00", "15.00"},
		{"double minus", "--5.00", "-5.00"},
		{"parenthesized and signed", "(-5.00)", "-5.00"},
		{"surrounding whitespace", "  42  ", "42"},
		{"apostrophe separator", "1'000.10", "1000.10"},
		{"currency code", "USD 9.99", "9.99"},
		{"integer", "100", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseAmount_Malformed(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "$", "-", "12.3.4", "N/A"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseAmount(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, parsererror.ErrMalformedAmount))
		})
	}
}

func TestParseAmountOrZero(t *testing.T) {
	assert.True(t, ParseAmountOrZero("").IsZero())
	assert.True(t, ParseAmountOrZero("oops").IsZero())
	assert.Equal(t, "-2.50", ParseAmountOrZero("-2.50").StringFixed(2))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "15.00", FormatAmount(decimal.NewFromInt(15)))
	assert.Equal(t, "-1234.50", FormatAmount(decimal.RequireFromString("-1234.5")))
	assert.Equal(t, "0.01", FormatAmount(decimal.RequireFromString("0.005")))
}

func TestNormalizedKey(t *testing.T) {
	a := NormalizedKey(decimal.RequireFromString("10"))
	b := NormalizedKey(decimal.RequireFromString("10.0"))
	c := NormalizedKey(decimal.RequireFromString("10.00"))
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}
