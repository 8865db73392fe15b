// Package core provides money parsing and formatting utilities.
//
// Amounts are kept as integer minor units. Formatting follows the Indonesian
// convention: "Rp" prefix and dots as thousands separators.
package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

var groupedThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// FormatRupiah renders an amount like "Rp 3.525.000" (negative: "-Rp 1.000").
func FormatRupiah(m Money) string {
	units := m.Units
	neg := units < 0
	if neg {
		units = -units
	}
	s := "Rp " + strings.ReplaceAll(humanize.Comma(units), ",", ".")
	if neg {
		return "-" + s
	}
	return s
}

// ParseRupiah converts a spreadsheet or form value to minor units.
//
// It accepts an optional "Rp" prefix, dot thousands separators and a comma
// decimal part, which is rounded half-up to a whole rupiah:
//
//	ParseRupiah("Rp 1.200.000")  -> 1200000, nil
//	ParseRupiah("250000")        -> 250000, nil
//	ParseRupiah("1.500,50")      -> 1501, nil
//	ParseRupiah("1.2e+06")       -> 1200000, nil (numeric cell)
//
// Negative or malformed values return ErrInvalidAmount.
func ParseRupiah(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "rp")
	s = strings.TrimSpace(strings.TrimPrefix(s, "."))
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 2 {
			return 0, ErrInvalidAmount
		}
		intPart := strings.ReplaceAll(parts[0], ".", "")
		if intPart == "" {
			intPart = "0"
		}
		iv, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		frac := parts[1]
		for _, r := range frac {
			if r < '0' || r > '9' {
				return 0, ErrInvalidAmount
			}
		}
		if len(frac) > 0 && frac[0] >= '5' {
			if iv == math.MaxInt64 {
				return 0, ErrInvalidAmount
			}
			iv++
		}
		return iv, nil
	}

	if groupedThousands.MatchString(s) {
		iv, err := strconv.ParseInt(strings.ReplaceAll(s, ".", ""), 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		return iv, nil
	}

	if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
		return iv, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > math.MaxInt64/2 {
		return 0, ErrInvalidAmount
	}
	return int64(f + 0.5), nil
}
