package distribution

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	quantityDecimals int32 = 0
	valueDecimals    int32 = 2
)

// DecimalsFor returns the number of decimals a drawn value keeps. Fields
// whose name contains "Quantity" are whole numbers; everything else keeps
// two decimals.
func DecimalsFor(field string) int32 {
	if strings.Contains(field, "Quantity") {
		return quantityDecimals
	}
	return valueDecimals
}

// Quantize rounds value to the given number of decimals with halves going
// up, so -2.5 becomes -2, then pulls the result back inside [lo, hi] at the
// same precision. Rounding goes through a decimal representation so that
// values such as 1.005 round the way they read.
//
// When no value with that precision lies inside the range the result is
// lo rounded up, which can exceed hi.
func Quantize(value, lo, hi float64, decimals int32) float64 {
	d := roundHalfUp(decimal.NewFromFloat(value), decimals)

	if upper := decimal.NewFromFloat(hi); d.GreaterThan(upper) {
		d = upper.RoundFloor(decimals)
	}
	if lower := decimal.NewFromFloat(lo); d.LessThan(lower) {
		d = lower.RoundCeil(decimals)
	}

	f, _ := d.Float64()
	return f
}

func roundHalfUp(d decimal.Decimal, decimals int32) decimal.Decimal {
	return d.Shift(decimals).Add(decimal.NewFromFloat(0.5)).Floor().Shift(-decimals)
}
