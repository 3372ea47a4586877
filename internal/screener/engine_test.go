package screener

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

func testRows() []contracts.ScreenRow {
	return []contracts.ScreenRow{
		{
			Ticker: "RELIANCE", CompanyName: "Reliance Industries", Sector: "Energy",
			MarketCap: fp(1900000), PriceToBook: fp(2.1), EVEBITDA: fp(11),
			ROE: fp(9.5), DebtEquity: fp(0.4), InterestCoverage: fp(6),
		},
		{
			Ticker: "TCS", CompanyName: "Tata Consultancy Services", Sector: "IT",
			MarketCap: fp(1400000), PriceToBook: fp(12), EVEBITDA: fp(20),
			ROE: fp(46), ROCE: fp(55), OPM: fp(25), DebtEquity: fp(0.1),
			InterestCoverage: fp(80), AltmanZScore: fp(9.1),
		},
		{
			Ticker: "INFY", CompanyName: "Infosys", Sector: "IT",
			MarketCap: fp(620000), PriceToBook: fp(4.4), EVEBITDA: fp(11.8),
			ROE: fp(31), ROCE: fp(38), OPM: fp(21), DebtEquity: fp(0.1),
			InterestCoverage: fp(60), AltmanZScore: fp(8.2),
		},
		{
			Ticker: "SUZLON", CompanyName: "Suzlon Energy", Sector: "Energy",
			MarketCap: fp(65000), PriceToBook: fp(9), ROE: fp(25),
			DebtEquity: fp(1.9), OPM: fp(16),
		},
	}
}

func newTestEngine(store Store) (*Engine, *memAudit) {
	audit := &memAudit{}
	return NewEngine(store, audit, logger.Nop()), audit
}

func TestRunPredefinedValueScreen(t *testing.T) {
	engine, audit := newTestEngine(&memStore{rows: testRows()})

	result, err := engine.RunPredefined(context.Background(), "value", contracts.AdditionalFilters{})
	require.NoError(t, err)

	// Only INFY satisfies every value criterion; RELIANCE fails roe>15,
	// TCS fails pb<5, SUZLON lacks several metrics entirely.
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "INFY", result.Rows[0].Ticker)
	assert.Equal(t, 1, result.Stats.TotalStocks)

	entry := audit.last()
	require.NotNil(t, entry)
	assert.Equal(t, "screen", entry.Operation)
	assert.Equal(t, "success", entry.Status)
}

func TestRunPredefinedUnknownKey(t *testing.T) {
	engine, audit := newTestEngine(&memStore{rows: testRows()})

	_, err := engine.RunPredefined(context.Background(), "momentum", contracts.AdditionalFilters{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrUnknownScreen))

	entry := audit.last()
	require.NotNil(t, entry)
	assert.Equal(t, "failure", entry.Status)
}

func TestRunCustomOrdering(t *testing.T) {
	engine, _ := newTestEngine(&memStore{rows: testRows()})

	screen := criteria.Screen{
		Name:  "high-roe",
		Logic: criteria.LogicAnd,
		Predicates: []criteria.Predicate{
			{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(20)},
		},
	}
	result, err := engine.RunCustom(context.Background(), screen, contracts.AdditionalFilters{})
	require.NoError(t, err)

	// Descending ROE: TCS (46), INFY (31), SUZLON (25).
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "TCS", result.Rows[0].Ticker)
	assert.Equal(t, "INFY", result.Rows[1].Ticker)
	assert.Equal(t, "SUZLON", result.Rows[2].Ticker)
}

func TestRunCustomIsIdempotent(t *testing.T) {
	engine, _ := newTestEngine(&memStore{rows: testRows()})
	screen := criteria.Screen{
		Name:  "high-roe",
		Logic: criteria.LogicAnd,
		Predicates: []criteria.Predicate{
			{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(20)},
		},
	}

	first, err := engine.RunCustom(context.Background(), screen, contracts.AdditionalFilters{})
	require.NoError(t, err)
	second, err := engine.RunCustom(context.Background(), screen, contracts.AdditionalFilters{})
	require.NoError(t, err)

	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestAdditionalFilters(t *testing.T) {
	engine, _ := newTestEngine(&memStore{rows: testRows()})
	screen := criteria.Screen{
		Name:  "high-roe",
		Logic: criteria.LogicAnd,
		Predicates: []criteria.Predicate{
			{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(20)},
		},
	}

	result, err := engine.RunCustom(context.Background(), screen, contracts.AdditionalFilters{
		Sectors: []string{"IT"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	for _, row := range result.Rows {
		assert.Equal(t, "IT", row.Sector)
	}

	result, err = engine.RunCustom(context.Background(), screen, contracts.AdditionalFilters{
		MinMarketCap: fp(1000000),
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "TCS", result.Rows[0].Ticker)
}

func TestRunCustomInvalidCriteria(t *testing.T) {
	engine, audit := newTestEngine(&memStore{rows: testRows()})

	screen := criteria.Screen{Name: "broken", Logic: criteria.LogicAnd}
	_, err := engine.RunCustom(context.Background(), screen, contracts.AdditionalFilters{})
	require.Error(t, err)
	assert.True(t, contracts.IsValidation(err))
	assert.Equal(t, "failure", audit.last().Status)
}

func TestStoreFailureIsAuditedAndReRaised(t *testing.T) {
	storeErr := errors.New("connection reset")
	engine, audit := newTestEngine(&memStore{err: storeErr})

	_, err := engine.RunPredefined(context.Background(), "quality", contracts.AdditionalFilters{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))
	assert.Equal(t, "failure", audit.last().Status)
}

func TestOrderRowsMissingMetricsSortLast(t *testing.T) {
	rows := []contracts.ScreenRow{
		{Ticker: "A"},
		{Ticker: "B", ROE: fp(10), MarketCap: fp(100)},
		{Ticker: "C", ROE: fp(10), MarketCap: fp(500)},
		{Ticker: "D", ROE: fp(30)},
	}
	orderRows(rows)

	assert.Equal(t, "D", rows[0].Ticker)
	assert.Equal(t, "C", rows[1].Ticker) // tie on ROE, larger cap first
	assert.Equal(t, "B", rows[2].Ticker)
	assert.Equal(t, "A", rows[3].Ticker) // no metrics at all sorts last
}
