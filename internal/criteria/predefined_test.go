package criteria

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

func TestPredefinedScreenLookup(t *testing.T) {
	s, err := PredefinedScreen("value")
	require.NoError(t, err)
	assert.Equal(t, "Value Screen", s.Name)
	assert.Equal(t, LogicAnd, s.Logic)
	require.Len(t, s.Predicates, 6)
	assert.Equal(t, FieldPriceToBook, s.Predicates[0].Field)
	assert.Equal(t, 5.0, *s.Predicates[0].Value)
	assert.Equal(t, FieldMarketCap, s.Predicates[5].Field)
	assert.Equal(t, 500.0, *s.Predicates[5].Value)

	_, err = PredefinedScreen("momentum")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrUnknownScreen))
}

func TestPredefinedCatalogIsValid(t *testing.T) {
	keys := PredefinedKeys()
	assert.Equal(t, []string{"value", "growth", "balanced", "quality", "turnaround"}, keys)

	for _, key := range keys {
		s, err := PredefinedScreen(key)
		require.NoError(t, err, key)
		assert.NoError(t, Validate(s.Predicates), key)
		assert.Equal(t, LogicAnd, s.Logic, key)
	}
}

func TestQualityScreenThresholds(t *testing.T) {
	s, err := PredefinedScreen("quality")
	require.NoError(t, err)

	want := map[Field]float64{
		FieldROE:              20,
		FieldROCE:             20,
		FieldOPM:              15,
		FieldInterestCoverage: 5,
		FieldDebtEquity:       0.5,
		FieldAltmanZScore:     2.6,
	}
	require.Len(t, s.Predicates, len(want))
	for _, p := range s.Predicates {
		assert.Equal(t, want[p.Field], *p.Value, p.Field)
	}
}

func TestListPredefined(t *testing.T) {
	list := ListPredefined()
	require.Len(t, list, 5)
	assert.Equal(t, "value", list[0].Key)
	assert.Equal(t, "turnaround", list[4].Key)
	for _, e := range list {
		assert.NotEmpty(t, e.Name)
		assert.NotEmpty(t, e.Description)
	}
}
