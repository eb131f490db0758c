// Package format renders engine numbers the way the presentation layer
// shows them: 2-decimal USD and percentages with a literal % suffix.
package format

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/bidcost/internal/numeric"
)

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(numeric.Finite(v)).Round(2).InexactFloat64()
}

// Currency formats v as USD, e.g. "$1,234.50" or "-$12.00".
func Currency(v float64) string {
	rounded := RoundCents(v)
	sign := ""
	if rounded < 0 {
		sign = "-"
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", math.Abs(rounded))
}

// Percent formats p as a percentage with at most two decimals, e.g. "10%"
// or "12.5%".
func Percent(p float64) string {
	return decimal.NewFromFloat(numeric.Finite(p)).Round(2).String() + "%"
}
