package postgres

import (
	"fmt"
	"strconv"
	"strings"
)

// numericStringToCents parses a NUMERIC(12,2) text value into cents without
// going through float64. Digits past the second decimal round half up.
func numericStringToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric string")
	}

	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(digits, ".")
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 3 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse numeric %q: %w", s, err)
	}
	if _, err := strconv.ParseUint(frac, 10, 64); err != nil {
		return 0, fmt.Errorf("parse numeric %q: invalid fraction", s)
	}
	f, _ := strconv.ParseInt(frac[:2], 10, 64)

	cents := w*100 + f
	if frac[2] >= '5' {
		cents++
	}
	if neg {
		cents = -cents
	}
	return cents, nil
}

func centsToNumericString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
