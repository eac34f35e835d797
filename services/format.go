package services

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatINR formats a float64 amount into Indian Rupee notation.
// It uses the Indian numbering system where, after the rightmost 3 digits,
// digits are grouped in pairs (e.g., ₹1,23,45,678.90).
// The result always includes exactly 2 decimal places.
func FormatINR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	formatted := applyIndianGrouping(intPart)

	result := "₹" + formatted + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

// ParseAmount extracts a numeric value from a formatted currency string.
// It strips the rupee symbol and thousands separators and tolerates stray
// characters, so a stored total like "₹1,23,456.78" or a hand-edited value
// never aborts a render: anything unparsable yields 0.
func ParseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, "₹", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || (r == '-' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseQty parses a plain decimal quantity string. Unlike ParseAmount it
// reports failure, since some report tables skip unparsable quantities
// instead of zero-filling them.
func ParseQty(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Format2 and Format3 are the fixed-precision quantity formats shared by the
// document, HTML and PDF renderers so the three stay digit-identical.
func Format2(v float64) string { return fmt.Sprintf("%.2f", v) }

func Format3(v float64) string { return fmt.Sprintf("%.3f", v) }
