package criteria

// Dataset identifies the logical table that owns a field. The compiler uses
// it to qualify field references so a compiled expression can run against any
// backing store that exposes the same aliases.
type Dataset string

const (
	DatasetInstrument   Dataset = "c" // company master
	DatasetFundamentals Dataset = "f"
	DatasetDerived      Dataset = "d"
	DatasetGrowth       Dataset = "g"
	DatasetQuality      Dataset = "q"
	DatasetTechnical    Dataset = "t"
)

// Field is one screenable metric. The vocabulary is closed: anything outside
// this set is rejected at validation time, before any persistence or query.
type Field string

const (
	// Valuation
	FieldPriceToBook     Field = "price_to_book"
	FieldPriceToEarnings Field = "price_to_earnings"
	FieldEVEBITDA        Field = "ev_ebitda"

	// Profitability
	FieldROE  Field = "roe"
	FieldROCE Field = "roce"
	FieldOPM  Field = "opm"
	FieldNPM  Field = "npm"

	// Leverage
	FieldDebtEquity       Field = "debt_equity"
	FieldCurrentRatio     Field = "current_ratio"
	FieldInterestCoverage Field = "interest_coverage"

	// Growth
	FieldRevenueCAGR3Y Field = "revenue_cagr_3y"
	FieldRevenueCAGR5Y Field = "revenue_cagr_5y"
	FieldProfitCAGR3Y  Field = "profit_cagr_3y"
	FieldProfitCAGR5Y  Field = "profit_cagr_5y"

	// Quality
	FieldAltmanZScore    Field = "altman_z_score"
	FieldPromoterHolding Field = "promoter_holding"
	FieldOCFToNetProfit  Field = "ocf_to_net_profit"

	// Technical
	FieldEMA20           Field = "ema_20"
	FieldEMA50           Field = "ema_50"
	FieldMACD            Field = "macd"
	FieldChoppinessIndex Field = "choppiness_index"
	FieldATR14           Field = "atr_14"

	// Instrument / price
	FieldMarketCap Field = "market_cap"
	FieldPrice     Field = "price"
)

// fieldDatasets maps every recognized field to the dataset that owns it.
// Membership in this map is the vocabulary check.
var fieldDatasets = map[Field]Dataset{
	FieldPriceToBook:      DatasetDerived,
	FieldPriceToEarnings:  DatasetDerived,
	FieldEVEBITDA:         DatasetDerived,
	FieldROE:              DatasetDerived,
	FieldROCE:             DatasetDerived,
	FieldOPM:              DatasetDerived,
	FieldNPM:              DatasetDerived,
	FieldDebtEquity:       DatasetDerived,
	FieldCurrentRatio:     DatasetDerived,
	FieldInterestCoverage: DatasetDerived,

	FieldRevenueCAGR3Y: DatasetGrowth,
	FieldRevenueCAGR5Y: DatasetGrowth,
	FieldProfitCAGR3Y:  DatasetGrowth,
	FieldProfitCAGR5Y:  DatasetGrowth,

	FieldAltmanZScore:    DatasetQuality,
	FieldPromoterHolding: DatasetQuality,
	FieldOCFToNetProfit:  DatasetQuality,

	FieldEMA20:           DatasetTechnical,
	FieldEMA50:           DatasetTechnical,
	FieldMACD:            DatasetTechnical,
	FieldChoppinessIndex: DatasetTechnical,
	FieldATR14:           DatasetTechnical,

	FieldMarketCap: DatasetInstrument,
	FieldPrice:     DatasetFundamentals,
}

// DatasetOf resolves the dataset owning a field. ok is false for fields
// outside the vocabulary.
func DatasetOf(f Field) (Dataset, bool) {
	ds, ok := fieldDatasets[f]
	return ds, ok
}

// Known reports whether f belongs to the metric vocabulary.
func Known(f Field) bool {
	_, ok := fieldDatasets[f]
	return ok
}

// Fields returns the full vocabulary, for error messages and API listings.
func Fields() []Field {
	out := make([]Field, 0, len(fieldDatasets))
	for f := range fieldDatasets {
		out = append(out, f)
	}
	return out
}
