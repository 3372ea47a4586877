package fundamentals

import "math"

// CAGR is the compound annual growth rate between two values over a number of
// years, as a percentage. Undefined (NaN) for non-positive start values.
func CAGR(startValue, endValue float64, periods int) float64 {
	if startValue <= 0 || math.IsNaN(startValue) || math.IsNaN(endValue) || periods == 0 {
		return math.NaN()
	}
	return (math.Pow(endValue/startValue, 1/float64(periods)) - 1) * 100
}

// GrowthRate is the simple period-over-period growth rate, as a percentage.
func GrowthRate(oldValue, newValue float64) float64 {
	return safeDivide(newValue-oldValue, oldValue) * 100
}

// YoYGrowth is GrowthRate with current/previous argument order.
func YoYGrowth(current, previous float64) float64 {
	return GrowthRate(previous, current)
}
