package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

// monthlyRate converts an annual rate (fraction, e.g. 0.06) to the equivalent
// monthly compounding rate (1+r)^(1/12) - 1. The fractional exponent is taken
// in float64 and converted back once; the result is a fixed function of the
// input, so projections stay deterministic.
func monthlyRate(annual decimal.Decimal) decimal.Decimal {
	if annual.IsZero() {
		return decimal.Zero
	}
	f, _ := annual.Float64()
	return decimal.NewFromFloat(math.Pow(1+f, 1.0/12.0) - 1)
}

// percentToFraction converts a percentage (6 = 6%) to a fraction (0.06).
func percentToFraction(percent decimal.Decimal) decimal.Decimal {
	return percent.Div(decimal.NewFromInt(100))
}
