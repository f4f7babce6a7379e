// Package numeric provides locale-tolerant number parsing and fi-FI display
// formatting. Form submissions arrive with comma decimals and space thousand
// separators; everything the calculation engine consumes goes through Parse
// first so no locale-ambiguous strings survive into the domain layer.
// This is part of the platform layer and contains no business logic.
package numeric

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Finnish)

// separator characters stripped before parsing: regular space, NBSP and
// narrow NBSP (both appear in copy-pasted fi-FI formatted numbers).
var separatorReplacer = strings.NewReplacer(" ", "", " ", "", " ", "")

// Parse converts arbitrary form input to a float64. It accepts nil, numbers
// and strings with comma decimals or space thousand separators. It is total:
// unparseable input yields 0, never NaN and never an error.
func Parse(input any) float64 {
	switch v := input.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	case float32:
		return Parse(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseString(v)
	default:
		return parseString(fmt.Sprint(v))
	}
}

// ParseInt parses input as an integer, truncating any fraction. Used for
// fields like construction year.
func ParseInt(input any) int {
	return int(Parse(input))
}

func parseString(s string) float64 {
	cleaned := separatorReplacer.Replace(strings.TrimSpace(s))
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return 0
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return val
}

// Format renders a value using fi-FI conventions (comma decimal, space-style
// grouping) with a fixed number of fraction digits. Non-finite input renders
// as "0".
func Format(value float64, fractionDigits int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0"
	}
	return printer.Sprintf("%v", number.Decimal(value,
		number.MinFractionDigits(fractionDigits),
		number.MaxFractionDigits(fractionDigits),
	))
}

// FormatCurrency renders a EUR amount with zero fraction digits, the default
// used throughout the report. fi-FI places the symbol after the amount.
func FormatCurrency(value float64) string {
	return Format(value, 0) + " €"
}

// FormatDecimal renders with one fraction digit, the report default for
// non-currency decimals.
func FormatDecimal(value float64) string {
	return Format(value, 1)
}
