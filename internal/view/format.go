package view

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NA marks an indicator the backend did not send.
const NA = "N/A"

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	return group(strconv.FormatInt(n, 10))
}

// group inserts a comma every three digits of an optionally signed integer
// string.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	b.WriteString(sign)
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Fixed2 rounds v half away from zero to two decimals.
func Fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Metric formats an optional indicator, "N/A" when absent.
func Metric(v *float64) string {
	if v == nil {
		return NA
	}
	return Fixed2(*v)
}

// FormatVolume formats a traded volume as a whole number. Volumes beyond the
// int64 range are formatted exactly.
func FormatVolume(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NA
	}
	return group(decimal.NewFromFloat(v).Round(0).String())
}
