// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/cashcal/internal/model"
)

// FormatCompact formats a number with human-readable suffixes.
// e.g., 1234 -> "1.2K", 1234567 -> "1.2M", 1234567890 -> "1.2B"
func FormatCompact(f float64) string {
	abs := math.Abs(f)

	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", f/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", f/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fK", f/1_000)
	default:
		return strconv.FormatFloat(math.Round(f), 'f', -1, 64)
	}
}

// FormatAmount formats a money value with a currency sign and separators.
func FormatAmount(v float64) string {
	if v < 0 {
		return "-" + FormatAmount(-v)
	}
	if v >= 1000 {
		return "$" + FormatNumber(int64(math.Round(v)))
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatValue renders an aggregate the way its mode reads: counts as whole
// numbers, sums as amounts.
func FormatValue(v float64, mode model.Mode) string {
	if mode == model.ModeCount {
		return FormatNumber(int64(math.Round(v)))
	}
	return FormatAmount(v)
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

// FormatDelta formats a signed amount difference.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatAmount(delta)
	}
	return "-" + FormatAmount(-delta)
}

// FormatRunway describes DaysToZero, spelling out the not-computable case.
func FormatRunway(m model.RiskMetrics) string {
	if m.RunwayUnknown {
		return "n/a (no burn)"
	}
	if m.DaysToZero == 1 {
		return "1 day"
	}
	return FormatNumber(int64(m.DaysToZero)) + " days"
}

// FormatDelay renders a delay in days with an explicit sign.
func FormatDelay(days int) string {
	if days > 0 {
		return fmt.Sprintf("+%dd", days)
	}
	return fmt.Sprintf("%dd", days)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// HeatLevel buckets an intensity in [0,1] into 0 (none) through 4 (peak).
// Any positive intensity is at least level 1.
func HeatLevel(intensity float64) int {
	if !(intensity > 0) {
		return 0
	}
	lvl := int(math.Ceil(intensity * 4))
	if lvl > 4 {
		return 4
	}
	return lvl
}
