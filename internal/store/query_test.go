package store

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
)

func fp(v float64) *float64 { return &v }

func compileValue(t *testing.T) *criteria.Compiled {
	t.Helper()
	screen, err := criteria.PredefinedScreen("value")
	require.NoError(t, err)
	compiled, err := criteria.Compile(screen.Predicates, screen.Logic)
	require.NoError(t, err)
	return compiled
}

func TestBuildScreenQueryNumbersFilterParamsAfterScreenParams(t *testing.T) {
	compiled := compileValue(t)
	n := len(compiled.Args)

	query, args := buildScreenQuery(compiled, contracts.AdditionalFilters{
		Sectors:      []string{"IT", "Banking"},
		MinMarketCap: fp(500),
	})

	require.Len(t, args, n+2)
	assert.Contains(t, query, fmt.Sprintf("c.sector = ANY($%d)", n+1))
	assert.Contains(t, query, fmt.Sprintf("c.market_cap >= $%d", n+2))
	assert.Equal(t, []string{"IT", "Banking"}, args[n])
	assert.Equal(t, 500.0, args[n+1])
}

func TestBuildScreenQueryFiltersAreANDCombined(t *testing.T) {
	screen := criteria.Screen{
		Predicates: []criteria.Predicate{
			{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(15)},
			{Field: criteria.FieldOPM, Operator: criteria.OpGT, Value: fp(20)},
		},
		Logic: criteria.LogicOr,
	}
	compiled, err := criteria.Compile(screen.Predicates, screen.Logic)
	require.NoError(t, err)

	query, _ := buildScreenQuery(compiled, contracts.AdditionalFilters{MinMarketCap: fp(100)})

	// The OR screen is parenthesized so the market-cap filter binds outside it.
	assert.Contains(t, query, "(d.roe > $1 OR d.opm > $2) AND c.market_cap >= $3")
}

func TestBuildScreenQueryNoLiterals(t *testing.T) {
	compiled := compileValue(t)
	query, _ := buildScreenQuery(compiled, contracts.AdditionalFilters{MinMarketCap: fp(500)})

	for _, lit := range []string{"500", "15", "12", "1.5"} {
		where := query[strings.Index(query, "WHERE"):]
		assert.NotContains(t, where, " "+lit, "literal %s leaked into the statement", lit)
	}
}

func TestBuildScreenQueryOrdering(t *testing.T) {
	compiled := compileValue(t)
	query, _ := buildScreenQuery(compiled, contracts.AdditionalFilters{})
	assert.Contains(t, query, "ORDER BY d.roe DESC NULLS LAST, c.market_cap DESC NULLS LAST")
}
