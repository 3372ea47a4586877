package market

import (
	"github.com/screenerlabs/equityscreener/pkg/config"
	"github.com/screenerlabs/equityscreener/pkg/httputil"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

const userAgent = "Mozilla/5.0 (compatible; equityscreener/1.0)"

// Yahoo is the Yahoo Finance implementation of contracts.MarketDataProvider.
// All requests share one rate-limited HTTP client.
type Yahoo struct {
	http       *httputil.Client
	chartURL   string
	summaryURL string
	profileURL string
	logger     *logger.Logger
}

// NewYahoo creates a provider from config.
func NewYahoo(cfg *config.Config, log *logger.Logger) *Yahoo {
	client := httputil.NewWithTimeout(cfg, log, cfg.Market.Timeout).
		WithRateLimit(cfg.Market.RateLimit, cfg.Market.RateBurst).
		WithUserAgent(userAgent)

	return &Yahoo{
		http:       client,
		chartURL:   cfg.Market.ChartBaseURL,
		summaryURL: cfg.Market.SummaryBaseURL,
		profileURL: cfg.Market.ProfileBaseURL,
		logger:     log,
	}
}
