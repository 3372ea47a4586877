package criteria

import (
	"fmt"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

func scalar(f Field, op Operator, v float64) Predicate {
	return Predicate{Field: f, Operator: op, Value: &v}
}

// predefinedScreens is the fixed, versioned catalog of built-in strategies.
// Consumed read-only by the screening engine and the CLI/API layers.
var predefinedScreens = map[string]Screen{
	"value": {
		Name:        "Value Screen",
		Description: "Traditional value investing criteria",
		Logic:       LogicAnd,
		Predicates: []Predicate{
			scalar(FieldPriceToBook, OpLT, 5),
			scalar(FieldEVEBITDA, OpLT, 12),
			scalar(FieldROE, OpGT, 15),
			scalar(FieldDebtEquity, OpLT, 1.5),
			scalar(FieldInterestCoverage, OpGT, 3),
			scalar(FieldMarketCap, OpGT, 500),
		},
	},
	"growth": {
		Name:        "Growth Screen",
		Description: "High-growth companies with sustainable metrics",
		Logic:       LogicAnd,
		Predicates: []Predicate{
			scalar(FieldRevenueCAGR3Y, OpGT, 20),
			scalar(FieldOPM, OpGT, 20),
			scalar(FieldDebtEquity, OpLT, 1),
			scalar(FieldInterestCoverage, OpGT, 5),
		},
	},
	"balanced": {
		Name:        "Balanced Screen",
		Description: "Reasonably-valued growth companies",
		Logic:       LogicAnd,
		Predicates: []Predicate{
			scalar(FieldPriceToBook, OpLT, 8),
			scalar(FieldEVEBITDA, OpLT, 20),
			scalar(FieldROE, OpGT, 12),
			scalar(FieldOPM, OpGT, 15),
			scalar(FieldDebtEquity, OpLT, 2),
			scalar(FieldInterestCoverage, OpGT, 3),
		},
	},
	"quality": {
		Name:        "Quality Screen",
		Description: "High-quality businesses with strong fundamentals",
		Logic:       LogicAnd,
		Predicates: []Predicate{
			scalar(FieldROE, OpGT, 20),
			scalar(FieldROCE, OpGT, 20),
			scalar(FieldOPM, OpGT, 15),
			scalar(FieldInterestCoverage, OpGT, 5),
			scalar(FieldDebtEquity, OpLT, 0.5),
			scalar(FieldAltmanZScore, OpGT, 2.6),
		},
	},
	"turnaround": {
		Name:        "Turnaround Screen",
		Description: "Companies showing operational improvement",
		Logic:       LogicAnd,
		Predicates: []Predicate{
			scalar(FieldOPM, OpGT, 20),
			scalar(FieldDebtEquity, OpLT, 2),
			scalar(FieldMarketCap, OpGT, 200),
		},
	},
}

// predefinedOrder fixes listing order for CLI/API output.
var predefinedOrder = []string{"value", "growth", "balanced", "quality", "turnaround"}

// PredefinedScreen looks up a built-in strategy by key, failing with
// ErrUnknownScreen for anything outside the catalog.
func PredefinedScreen(key string) (Screen, error) {
	s, ok := predefinedScreens[key]
	if !ok {
		return Screen{}, fmt.Errorf("%w: %q (available: %v)", contracts.ErrUnknownScreen, key, predefinedOrder)
	}
	return s, nil
}

// PredefinedKeys returns the catalog keys in listing order.
func PredefinedKeys() []string {
	out := make([]string, len(predefinedOrder))
	copy(out, predefinedOrder)
	return out
}

// ListPredefined returns the catalog in listing order.
func ListPredefined() []struct {
	Key         string
	Name        string
	Description string
} {
	out := make([]struct {
		Key         string
		Name        string
		Description string
	}, 0, len(predefinedOrder))
	for _, k := range predefinedOrder {
		s := predefinedScreens[k]
		out = append(out, struct {
			Key         string
			Name        string
			Description string
		}{k, s.Name, s.Description})
	}
	return out
}
