package market

import (
	"context"
	"fmt"
	"time"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// chartResponse mirrors the v8 chart API envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64    `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches daily OHLCV bars in [from, to], ordered by date ascending.
// Bars with a null close (exchange holidays, partial sessions) are dropped.
func (y *Yahoo) History(ctx context.Context, ticker string, from, to time.Time) ([]contracts.PriceBar, error) {
	symbol := NormalizeSymbol(ticker)
	url := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=1d",
		y.chartURL, symbol, from.Unix(), to.Unix())

	var resp chartResponse
	if err := y.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("chart %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", contracts.ErrNoData, symbol, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoData, symbol)
	}

	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]contracts.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := contracts.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: empty range", contracts.ErrNoData, symbol)
	}
	return bars, nil
}

// Quote returns the latest price from the chart metadata.
func (y *Yahoo) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	symbol := NormalizeSymbol(ticker)
	url := fmt.Sprintf("%s/%s?range=1d&interval=1d", y.chartURL, symbol)

	var resp chartResponse
	if err := y.http.GetJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	if resp.Chart.Error != nil || len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoData, symbol)
	}

	meta := resp.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil {
		return nil, fmt.Errorf("%w: %s: no market price", contracts.ErrNoData, symbol)
	}

	asOf := time.Now().UTC()
	if meta.RegularMarketTime > 0 {
		asOf = time.Unix(meta.RegularMarketTime, 0).UTC()
	}
	return &contracts.Quote{
		Ticker: BareTicker(symbol),
		Price:  *meta.RegularMarketPrice,
		AsOf:   asOf,
	}, nil
}
