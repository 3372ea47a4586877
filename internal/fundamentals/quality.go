package fundamentals

import "math"

// AltmanZInputs are the balance-sheet and market inputs to the Z-Score.
// WorkingCapital is current assets minus current liabilities;
// MarketValueEquity is the market capitalization.
type AltmanZInputs struct {
	WorkingCapital    float64
	RetainedEarnings  float64
	EBIT              float64
	MarketValueEquity float64
	Sales             float64
	TotalAssets       float64
	TotalLiabilities  float64
}

// AltmanZScore computes the classic bankruptcy predictor:
//
//	Z = 1.2*WC/TA + 1.4*RE/TA + 3.3*EBIT/TA + 0.6*MVE/TL + 1.0*Sales/TA
//
// Z > 2.99 is the safe zone, Z < 1.81 the distress zone. Missing component
// ratios contribute zero; an absent balance sheet (zero total assets or
// liabilities) makes the whole score NaN.
func AltmanZScore(in AltmanZInputs) float64 {
	if in.TotalAssets == 0 || math.IsNaN(in.TotalAssets) ||
		in.TotalLiabilities == 0 || math.IsNaN(in.TotalLiabilities) {
		return math.NaN()
	}
	term := func(v float64) float64 {
		if math.IsNaN(v) {
			return 0
		}
		return v
	}
	return 1.2*term(safeDivide(in.WorkingCapital, in.TotalAssets)) +
		1.4*term(safeDivide(in.RetainedEarnings, in.TotalAssets)) +
		3.3*term(safeDivide(in.EBIT, in.TotalAssets)) +
		0.6*term(safeDivide(in.MarketValueEquity, in.TotalLiabilities)) +
		1.0*term(safeDivide(in.Sales, in.TotalAssets))
}

// OCFToNetProfit is operating cash flow over net profit, an earnings quality
// check (sustained values well below 1 suggest aggressive accruals).
func OCFToNetProfit(operatingCashFlow, netProfit float64) float64 {
	return safeDivide(operatingCashFlow, netProfit)
}
