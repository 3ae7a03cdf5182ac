package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol is appended to every formatted amount.
const CurrencySymbol = "€"

// FormatCurrency formats an amount the pt-PT way with a trailing euro sign,
// e.g. 1234.56 -> "1.234,56 €" (the space is a non-breaking space).
// The result always has exactly 2 decimal places.
func FormatCurrency(amount float64) string {
	return FormatNumber(amount, 2) + "\u00a0" + CurrencySymbol
}

// FormatPercentage formats a value that is already in percent,
// e.g. 12.5 -> "12,50%".
func FormatPercentage(value float64) string {
	return FormatNumber(value, 2) + "%"
}

// FormatNumber formats value with "." thousands grouping and a "," decimal
// separator. decimals is clamped to [0, 9].
func FormatNumber(value float64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	if decimals > 9 {
		decimals = 9
	}
	value = finiteOrZero(value)
	if math.Abs(value) >= math.MaxInt64 {
		// humanize goes through int64 and would wrap around.
		return formatLarge(value, decimals)
	}
	// The trailing "," is the decimal directive; with no digits after it
	// humanize drops the separator entirely.
	return humanize.FormatFloat("#.###,"+strings.Repeat("#", decimals), value)
}

// formatLarge groups the integer digits of strconv's fixed-point rendering.
func formatLarge(value float64, decimals int) string {
	digits := strconv.FormatFloat(math.Abs(value), 'f', decimals, 64)
	intPart, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	if value < 0 {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}

// ParseLocalizedNumber reads numbers written as FormatCurrency,
// FormatPercentage or a user would type them ("1.234,56", "€ 12,5", "7").
// Anything unparsable yields 0.
func ParseLocalizedNumber(s string) float64 {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		switch r {
		case '€', '%', '.':
			return -1
		}
		return r
	}, s)
	normalized = strings.Replace(normalized, ",", ".", 1)
	if normalized == "" {
		return 0
	}
	return CoerceNumber(normalized)
}

// ParseInputNumber reads a number typed into a form or a spreadsheet cell.
// Input containing a comma is read the localized way ("1.234,5"); anything
// else as a plain decimal ("1234.5").
func ParseInputNumber(s string) float64 {
	if strings.Contains(s, ",") {
		return ParseLocalizedNumber(s)
	}
	return CoerceNumber(s)
}
