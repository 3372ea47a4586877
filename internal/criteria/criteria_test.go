package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

func fp(v float64) *float64 { return &v }

func TestParseLogic(t *testing.T) {
	tests := []struct {
		in      string
		want    Logic
		wantErr bool
	}{
		{"AND", LogicAnd, false},
		{"and", LogicAnd, false},
		{" or ", LogicOr, false},
		{"", LogicAnd, false},
		{"XOR", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLogic(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			assert.True(t, contracts.IsValidation(err))
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestValidateRejectsMalformedSets(t *testing.T) {
	tests := []struct {
		name  string
		preds []Predicate
	}{
		{"empty set", nil},
		{"unknown field", []Predicate{{Field: "magic_ratio", Operator: OpGT, Value: fp(1)}}},
		{"comparison without value", []Predicate{{Field: FieldROE, Operator: OpGT}}},
		{"between missing max", []Predicate{{Field: FieldROE, Operator: OpBetween, Min: fp(10)}}},
		{"in with empty set", []Predicate{{Field: FieldROE, Operator: OpIn}}},
		{"unknown operator", []Predicate{{Field: FieldROE, Operator: "~", Value: fp(1)}}},
		{
			"one bad predicate poisons the set",
			[]Predicate{
				{Field: FieldROE, Operator: OpGT, Value: fp(15)},
				{Field: "bogus", Operator: OpGT, Value: fp(1)},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.preds)
			require.Error(t, err)
			assert.True(t, contracts.IsValidation(err))
		})
	}
}

func TestValidateAcceptsEveryOperatorShape(t *testing.T) {
	err := Validate([]Predicate{
		{Field: FieldROE, Operator: OpGT, Value: fp(15)},
		{Field: FieldPriceToBook, Operator: OpBetween, Min: fp(0), Max: fp(5)},
		{Field: FieldMarketCap, Operator: OpIn, In: []float64{500, 1000}},
	})
	assert.NoError(t, err)
}

func TestPredicateMatches(t *testing.T) {
	tests := []struct {
		name string
		p    Predicate
		v    *float64
		want bool
	}{
		{"lt true", Predicate{Field: FieldPriceToBook, Operator: OpLT, Value: fp(5)}, fp(3.2), true},
		{"lt false on equal", Predicate{Field: FieldPriceToBook, Operator: OpLT, Value: fp(5)}, fp(5), false},
		{"gte true on equal", Predicate{Field: FieldROE, Operator: OpGTE, Value: fp(15)}, fp(15), true},
		{"neq", Predicate{Field: FieldROE, Operator: OpNEQ, Value: fp(0)}, fp(12), true},
		{"between inclusive", Predicate{Field: FieldROE, Operator: OpBetween, Min: fp(10), Max: fp(20)}, fp(20), true},
		{"between outside", Predicate{Field: FieldROE, Operator: OpBetween, Min: fp(10), Max: fp(20)}, fp(21), false},
		{"in hit", Predicate{Field: FieldMarketCap, Operator: OpIn, In: []float64{500, 1000}}, fp(1000), true},
		{"in miss", Predicate{Field: FieldMarketCap, Operator: OpIn, In: []float64{500, 1000}}, fp(750), false},
		{"missing metric never matches", Predicate{Field: FieldROE, Operator: OpNEQ, Value: fp(99)}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Matches(tt.v))
		})
	}
}

func TestUnmarshalPredicatesRevalidates(t *testing.T) {
	good, err := MarshalPredicates([]Predicate{{Field: FieldROE, Operator: OpGT, Value: fp(15)}})
	require.NoError(t, err)

	preds, err := UnmarshalPredicates(good)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, FieldROE, preds[0].Field)

	// A stored row with a field outside the vocabulary must not load.
	_, err = UnmarshalPredicates([]byte(`[{"field":"magic_ratio","operator":">","value":1}]`))
	require.Error(t, err)
	assert.True(t, contracts.IsValidation(err))

	_, err = UnmarshalPredicates([]byte(`not json`))
	assert.Error(t, err)
}

func TestFieldVocabulary(t *testing.T) {
	ds, ok := DatasetOf(FieldROE)
	require.True(t, ok)
	assert.Equal(t, DatasetDerived, ds)

	ds, ok = DatasetOf(FieldMarketCap)
	require.True(t, ok)
	assert.Equal(t, DatasetInstrument, ds)

	ds, ok = DatasetOf(FieldChoppinessIndex)
	require.True(t, ok)
	assert.Equal(t, DatasetTechnical, ds)

	_, ok = DatasetOf("magic_ratio")
	assert.False(t, ok)
	assert.False(t, Known("magic_ratio"))
	assert.NotEmpty(t, Fields())
}
