// Package fundamentals computes the derived, growth and quality metrics that
// feed the metric snapshots. Inputs come straight from provider statements and
// may be zero or NaN; every function returns NaN when a metric cannot be
// computed, never zero. Boundary conversion to the nullable snapshot fields
// happens through contracts.Num.
package fundamentals

import "math"

// safeDivide returns n/d, or NaN when the division is undefined.
func safeDivide(n, d float64) float64 {
	if d == 0 || math.IsNaN(d) || math.IsNaN(n) {
		return math.NaN()
	}
	return n / d
}

// ROE is net profit over shareholders' equity, as a percentage.
func ROE(netProfit, equity float64) float64 {
	return safeDivide(netProfit, equity) * 100
}

// ROCE is EBIT over capital employed (total assets minus current
// liabilities), as a percentage.
func ROCE(ebit, capitalEmployed float64) float64 {
	return safeDivide(ebit, capitalEmployed) * 100
}

// DebtEquity is total debt over shareholders' equity.
func DebtEquity(totalDebt, equity float64) float64 {
	return safeDivide(totalDebt, equity)
}

// CurrentRatio is current assets over current liabilities.
func CurrentRatio(currentAssets, currentLiabilities float64) float64 {
	return safeDivide(currentAssets, currentLiabilities)
}

// InterestCoverage is EBIT over interest expense. A debt-free company with
// positive EBIT has unbounded coverage, so zero interest yields +Inf when
// EBIT is positive and NaN otherwise.
func InterestCoverage(ebit, interestExpense float64) float64 {
	if interestExpense == 0 || math.IsNaN(interestExpense) {
		if !math.IsNaN(ebit) && ebit > 0 {
			return math.Inf(1)
		}
		return math.NaN()
	}
	return safeDivide(ebit, interestExpense)
}

// PriceToBook is market price over book value per share.
func PriceToBook(price, bookValue float64) float64 {
	return safeDivide(price, bookValue)
}

// PriceToEarnings is market price over earnings per share.
func PriceToEarnings(price, eps float64) float64 {
	return safeDivide(price, eps)
}

// EVEBITDA is enterprise value over EBITDA.
func EVEBITDA(enterpriseValue, ebitda float64) float64 {
	return safeDivide(enterpriseValue, ebitda)
}

// OPM is operating profit over revenue, as a percentage.
func OPM(operatingProfit, revenue float64) float64 {
	return safeDivide(operatingProfit, revenue) * 100
}

// NPM is net profit over revenue, as a percentage.
func NPM(netProfit, revenue float64) float64 {
	return safeDivide(netProfit, revenue) * 100
}

// AssetTurnover is revenue over total assets.
func AssetTurnover(revenue, totalAssets float64) float64 {
	return safeDivide(revenue, totalAssets)
}
