package criteria

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileBindsEveryOperand(t *testing.T) {
	c, err := Compile([]Predicate{
		{Field: FieldPriceToBook, Operator: OpLT, Value: fp(5)},
		{Field: FieldROE, Operator: OpGT, Value: fp(15)},
		{Field: FieldMarketCap, Operator: OpGT, Value: fp(500)},
	}, LogicAnd)
	require.NoError(t, err)

	assert.Equal(t, "d.price_to_book < $1 AND d.roe > $2 AND c.market_cap > $3", c.Where)
	assert.Equal(t, []any{5.0, 15.0, 500.0}, c.Args)
	assert.ElementsMatch(t, []Dataset{DatasetDerived, DatasetInstrument}, c.Datasets)

	// No operand value may leak into the expression text.
	assert.NotContains(t, c.Where, "5")
	assert.NotContains(t, c.Where, "15")
	assert.NotContains(t, c.Where, "500")
}

func TestCompileBetweenAndIn(t *testing.T) {
	c, err := Compile([]Predicate{
		{Field: FieldROE, Operator: OpBetween, Min: fp(10), Max: fp(25)},
		{Field: FieldMarketCap, Operator: OpIn, In: []float64{500, 1000, 5000}},
	}, LogicOr)
	require.NoError(t, err)

	assert.Equal(t, "d.roe BETWEEN $1 AND $2 OR c.market_cap IN ($3,$4,$5)", c.Where)
	assert.Equal(t, []any{10.0, 25.0, 500.0, 1000.0, 5000.0}, c.Args)
}

func TestCompileNormalizesLogic(t *testing.T) {
	c, err := Compile([]Predicate{{Field: FieldROE, Operator: OpGT, Value: fp(15)}}, Logic("or"))
	require.NoError(t, err)
	assert.Equal(t, LogicOr, c.Logic)

	_, err = Compile([]Predicate{{Field: FieldROE, Operator: OpGT, Value: fp(15)}}, Logic("XOR"))
	assert.Error(t, err)
}

func TestCompileRejectsInvalidSet(t *testing.T) {
	_, err := Compile(nil, LogicAnd)
	assert.Error(t, err)

	_, err = Compile([]Predicate{{Field: "bogus", Operator: OpGT, Value: fp(1)}}, LogicAnd)
	assert.Error(t, err)
}

func TestCompiledMatches(t *testing.T) {
	and, err := Compile([]Predicate{
		{Field: FieldROE, Operator: OpGT, Value: fp(15)},
		{Field: FieldDebtEquity, Operator: OpLT, Value: fp(1)},
	}, LogicAnd)
	require.NoError(t, err)

	assert.True(t, and.Matches(map[Field]*float64{FieldROE: fp(22), FieldDebtEquity: fp(0.3)}))
	assert.False(t, and.Matches(map[Field]*float64{FieldROE: fp(22), FieldDebtEquity: fp(1.8)}))
	// Missing metric fails the whole conjunction.
	assert.False(t, and.Matches(map[Field]*float64{FieldROE: fp(22)}))

	or, err := Compile([]Predicate{
		{Field: FieldROE, Operator: OpGT, Value: fp(15)},
		{Field: FieldDebtEquity, Operator: OpLT, Value: fp(1)},
	}, LogicOr)
	require.NoError(t, err)

	assert.True(t, or.Matches(map[Field]*float64{FieldROE: fp(8), FieldDebtEquity: fp(0.3)}))
	assert.False(t, or.Matches(map[Field]*float64{FieldROE: fp(8), FieldDebtEquity: fp(2)}))
	assert.False(t, or.Matches(map[Field]*float64{}))
}

func TestCompilePredefinedCatalog(t *testing.T) {
	for _, key := range PredefinedKeys() {
		s, err := PredefinedScreen(key)
		require.NoError(t, err, key)

		c, err := Compile(s.Predicates, s.Logic)
		require.NoError(t, err, key)
		assert.Equal(t, len(s.Predicates), strings.Count(c.Where, "$"), key)
		assert.Len(t, c.Args, len(s.Predicates), key)
	}
}
