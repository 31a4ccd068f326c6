// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatKWh formats an energy value, switching to MWh at 10,000 kWh.
// e.g., 0.5 -> "0.500 kWh", 1234.5 -> "1,234.5 kWh", 25000 -> "25.00 MWh"
func FormatKWh(kwh float64) string {
	abs := math.Abs(kwh)
	switch {
	case abs >= 10_000:
		return fmt.Sprintf("%.2f MWh", kwh/1000)
	case abs >= 1000:
		whole := int64(kwh)
		frac := int64(math.Round(math.Abs(kwh-float64(whole)) * 10))
		if frac == 10 {
			whole, frac = whole+sign(kwh), 0
		}
		return fmt.Sprintf("%s.%d kWh", FormatNumber(whole), frac)
	case abs >= 100:
		return fmt.Sprintf("%.1f kWh", kwh)
	default:
		return fmt.Sprintf("%.3f kWh", kwh)
	}
}

func sign(v float64) int64 {
	if v < 0 {
		return -1
	}
	return 1
}

// FormatEnergy formats a bare kWh value with three decimals, for tables
// whose header already names the unit.
func FormatEnergy(kwh float64) string {
	return strconv.FormatFloat(kwh, 'f', 3, 64)
}

// FormatCost formats a money value with the given currency symbol.
func FormatCost(currency string, cost float64) string {
	if cost >= 1000 {
		return currency + FormatNumber(int64(math.Round(cost)))
	}
	if cost >= 100 {
		return fmt.Sprintf("%s%.0f", currency, cost)
	}
	return fmt.Sprintf("%s%.2f", currency, cost)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDate formats a calendar day as YYYY-MM-DD, or "-" when zero.
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("2006-01-02")
}

// FormatDateRange formats an inclusive day range and its length.
// e.g., "2024-01-01 .. 2024-03-31 (91 days)"
func FormatDateRange(first, last time.Time, days int) string {
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("%s .. %s (%d %s)", FormatDate(first), FormatDate(last), days, unit)
}
