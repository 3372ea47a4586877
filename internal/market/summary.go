package market

import (
	"context"
	"fmt"
	"time"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// summaryModules are the quoteSummary modules needed to assemble a
// fundamental snapshot.
const summaryModules = "financialData,defaultKeyStatistics,summaryDetail," +
	"balanceSheetHistory,incomeStatementHistory,cashflowStatementHistory"

// rawNum is Yahoo's {raw, fmt} number wrapper. Only the raw value matters.
type rawNum struct {
	Raw *float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				CurrentPrice rawNum `json:"currentPrice"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				BookValue       rawNum `json:"bookValue"`
				EnterpriseValue rawNum `json:"enterpriseValue"`
			} `json:"defaultKeyStatistics"`
			SummaryDetail struct {
				MarketCap rawNum `json:"marketCap"`
			} `json:"summaryDetail"`
			BalanceSheetHistory struct {
				Statements []struct {
					TotalAssets             rawNum `json:"totalAssets"`
					TotalStockholderEquity  rawNum `json:"totalStockholderEquity"`
					TotalDebt               rawNum `json:"totalDebt"`
					TotalCurrentAssets      rawNum `json:"totalCurrentAssets"`
					TotalCurrentLiabilities rawNum `json:"totalCurrentLiabilities"`
				} `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
			IncomeStatementHistory struct {
				Statements []struct {
					EndDate         rawNum `json:"endDate"`
					TotalRevenue    rawNum `json:"totalRevenue"`
					OperatingIncome rawNum `json:"operatingIncome"`
					EBITDA          rawNum `json:"ebitda"`
					NetIncome       rawNum `json:"netIncome"`
					InterestExpense rawNum `json:"interestExpense"`
				} `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			CashflowStatementHistory struct {
				Statements []struct {
					EndDate           rawNum `json:"endDate"`
					OperatingCashFlow rawNum `json:"totalCashFromOperatingActivities"`
				} `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// crore converts an absolute rupee amount to crores. Everything on the
// balance sheet and income statement is stored in crores.
func crore(n rawNum) *float64 {
	if n.Raw == nil {
		return nil
	}
	v := *n.Raw / 1e7
	return &v
}

// Fundamentals assembles a snapshot from the quoteSummary modules. Fields
// Yahoo does not report for a ticker stay nil.
func (y *Yahoo) Fundamentals(ctx context.Context, ticker string) (*contracts.FundamentalSnapshot, error) {
	symbol := NormalizeSymbol(ticker)
	url := fmt.Sprintf("%s/%s?modules=%s", y.summaryURL, symbol, summaryModules)

	var resp summaryResponse
	if err := y.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("fundamentals %s: %w", symbol, err)
	}

	if resp.QuoteSummary.Error != nil || len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoData, symbol)
	}
	r := resp.QuoteSummary.Result[0]

	snap := &contracts.FundamentalSnapshot{
		Ticker:          BareTicker(symbol),
		AsOfDate:        time.Now().UTC().Truncate(24 * time.Hour),
		Price:           r.FinancialData.CurrentPrice.Raw,
		BookValue:       r.DefaultKeyStatistics.BookValue.Raw,
		MarketCap:       crore(r.SummaryDetail.MarketCap),
		EnterpriseValue: crore(r.DefaultKeyStatistics.EnterpriseValue),
	}

	if sts := r.BalanceSheetHistory.Statements; len(sts) > 0 {
		bs := sts[0]
		snap.TotalAssets = crore(bs.TotalAssets)
		snap.TotalEquity = crore(bs.TotalStockholderEquity)
		snap.TotalDebt = crore(bs.TotalDebt)
		snap.CurrentAssets = crore(bs.TotalCurrentAssets)
		snap.CurrentLiabilities = crore(bs.TotalCurrentLiabilities)
	}
	if sts := r.IncomeStatementHistory.Statements; len(sts) > 0 {
		is := sts[0]
		snap.Revenue = crore(is.TotalRevenue)
		snap.OperatingProfit = crore(is.OperatingIncome)
		snap.EBITDA = crore(is.EBITDA)
		snap.NetProfit = crore(is.NetIncome)
		snap.InterestExpense = crore(is.InterestExpense)
	}
	if sts := r.CashflowStatementHistory.Statements; len(sts) > 0 {
		snap.OperatingCashFlow = crore(sts[0].OperatingCashFlow)
	}

	return snap, nil
}
