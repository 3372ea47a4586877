package criteria

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// Operator is a comparison in a screening predicate.
type Operator string

const (
	OpLT      Operator = "<"
	OpGT      Operator = ">"
	OpLTE     Operator = "<="
	OpGTE     Operator = ">="
	OpEQ      Operator = "="
	OpNEQ     Operator = "!="
	OpBetween Operator = "between"
	OpIn      Operator = "in"
)

var comparisonOps = map[Operator]bool{
	OpLT: true, OpGT: true, OpLTE: true, OpGTE: true, OpEQ: true, OpNEQ: true,
}

// Logic combines the predicates of a screen. There is no mixed precedence:
// a screen is uniformly AND or uniformly OR.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// ParseLogic normalizes a logic string, defaulting empty to AND.
func ParseLogic(s string) (Logic, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AND":
		return LogicAnd, nil
	case "OR":
		return LogicOr, nil
	default:
		return "", &contracts.ValidationError{Reason: fmt.Sprintf("logic must be AND or OR, got %q", s)}
	}
}

// Predicate is one screening condition: field, operator and an operand whose
// shape must match the operator (between -> min+max, in -> non-empty set,
// comparisons -> scalar).
type Predicate struct {
	Field    Field     `json:"field"`
	Operator Operator  `json:"operator"`
	Value    *float64  `json:"value,omitempty"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	In       []float64 `json:"in,omitempty"`
}

// Screen is a named, ordered set of predicates plus combination logic.
type Screen struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Predicates  []Predicate `json:"criteria"`
	Logic       Logic       `json:"logic"`
}

// Validate checks a whole criteria set atomically: the first malformed
// predicate rejects the set so stored screens are always well-formed.
func Validate(preds []Predicate) error {
	if len(preds) == 0 {
		return &contracts.ValidationError{Reason: "criteria set is empty"}
	}
	for _, p := range preds {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p Predicate) validate() error {
	if !Known(p.Field) {
		return &contracts.ValidationError{Field: string(p.Field), Reason: "not in the metric vocabulary"}
	}
	switch {
	case comparisonOps[p.Operator]:
		if p.Value == nil {
			return &contracts.ValidationError{Field: string(p.Field), Reason: fmt.Sprintf("operator %q requires a scalar value", p.Operator)}
		}
	case p.Operator == OpBetween:
		if p.Min == nil || p.Max == nil {
			return &contracts.ValidationError{Field: string(p.Field), Reason: "between requires both min and max"}
		}
	case p.Operator == OpIn:
		if len(p.In) == 0 {
			return &contracts.ValidationError{Field: string(p.Field), Reason: "in requires a non-empty set"}
		}
	default:
		return &contracts.ValidationError{Field: string(p.Field), Reason: fmt.Sprintf("unknown operator %q", p.Operator)}
	}
	return nil
}

// Matches evaluates the predicate against a metric value. A missing metric
// (nil) never matches, mirroring SQL three-valued comparison semantics.
func (p Predicate) Matches(v *float64) bool {
	if v == nil {
		return false
	}
	x := *v
	switch p.Operator {
	case OpLT:
		return x < *p.Value
	case OpGT:
		return x > *p.Value
	case OpLTE:
		return x <= *p.Value
	case OpGTE:
		return x >= *p.Value
	case OpEQ:
		return x == *p.Value
	case OpNEQ:
		return x != *p.Value
	case OpBetween:
		return x >= *p.Min && x <= *p.Max
	case OpIn:
		for _, m := range p.In {
			if x == m {
				return true
			}
		}
		return false
	}
	return false
}

// MarshalPredicates serializes a predicate list for durable storage.
func MarshalPredicates(preds []Predicate) ([]byte, error) {
	return json.Marshal(preds)
}

// UnmarshalPredicates restores a stored predicate list and re-validates it,
// so a corrupted row cannot smuggle an unknown field back into the engine.
func UnmarshalPredicates(raw []byte) ([]Predicate, error) {
	var preds []Predicate
	if err := json.Unmarshal(raw, &preds); err != nil {
		return nil, fmt.Errorf("decode criteria: %w", err)
	}
	if err := Validate(preds); err != nil {
		return nil, err
	}
	return preds, nil
}
