package market

import (
	"context"
	"fmt"
	"time"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

const historyModules = "incomeStatementHistory,cashflowStatementHistory"

// AnnualStatements returns per-fiscal-year statement data ordered newest
// first, as far back as Yahoo reports (typically four years). Operating cash
// flow is matched to its income statement by fiscal year end.
func (y *Yahoo) AnnualStatements(ctx context.Context, ticker string) ([]contracts.AnnualStatement, error) {
	symbol := NormalizeSymbol(ticker)
	url := fmt.Sprintf("%s/%s?modules=%s", y.summaryURL, symbol, historyModules)

	var resp summaryResponse
	if err := y.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("annual statements %s: %w", symbol, err)
	}
	if resp.QuoteSummary.Error != nil || len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoData, symbol)
	}
	r := resp.QuoteSummary.Result[0]

	ocfByYear := make(map[int]*float64)
	for _, cf := range r.CashflowStatementHistory.Statements {
		if cf.EndDate.Raw == nil {
			continue
		}
		year := time.Unix(int64(*cf.EndDate.Raw), 0).UTC().Year()
		ocfByYear[year] = crore(rawNum{Raw: cf.OperatingCashFlow.Raw})
	}

	var out []contracts.AnnualStatement
	for _, is := range r.IncomeStatementHistory.Statements {
		if is.EndDate.Raw == nil {
			continue
		}
		end := time.Unix(int64(*is.EndDate.Raw), 0).UTC()
		out = append(out, contracts.AnnualStatement{
			EndDate:           end,
			Revenue:           crore(is.TotalRevenue),
			NetProfit:         crore(is.NetIncome),
			OperatingCashFlow: ocfByYear[end.Year()],
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s: no annual statements", contracts.ErrNoData, symbol)
	}
	return out, nil
}
