package criteria

import (
	"fmt"
	"strings"
)

// Compiled is a backend-neutral filter expression over qualified field names
// plus positional parameter bindings. Literal values never appear in Where;
// every operand is bound through Args.
type Compiled struct {
	Where      string
	Args       []any
	Logic      Logic
	Datasets   []Dataset
	Predicates []Predicate
}

// Compile translates a validated predicate list into a parameterized filter
// expression. Placeholders are numbered $1..$n; stores that need a different
// placeholder style can rewrite positionally.
func Compile(preds []Predicate, logic Logic) (*Compiled, error) {
	if err := Validate(preds); err != nil {
		return nil, err
	}
	if logic != LogicAnd && logic != LogicOr {
		l, err := ParseLogic(string(logic))
		if err != nil {
			return nil, err
		}
		logic = l
	}

	var (
		clauses []string
		args    []any
		seen    = map[Dataset]bool{}
		sets    []Dataset
	)
	for _, p := range preds {
		ds, _ := DatasetOf(p.Field)
		if !seen[ds] {
			seen[ds] = true
			sets = append(sets, ds)
		}
		qualified := fmt.Sprintf("%s.%s", ds, p.Field)

		switch p.Operator {
		case OpBetween:
			clauses = append(clauses, fmt.Sprintf("%s BETWEEN $%d AND $%d", qualified, len(args)+1, len(args)+2))
			args = append(args, *p.Min, *p.Max)
		case OpIn:
			ph := make([]string, 0, len(p.In))
			for _, v := range p.In {
				args = append(args, v)
				ph = append(ph, fmt.Sprintf("$%d", len(args)))
			}
			clauses = append(clauses, fmt.Sprintf("%s IN (%s)", qualified, strings.Join(ph, ",")))
		default:
			clauses = append(clauses, fmt.Sprintf("%s %s $%d", qualified, p.Operator, len(args)+1))
			args = append(args, *p.Value)
		}
	}

	return &Compiled{
		Where:      strings.Join(clauses, fmt.Sprintf(" %s ", logic)),
		Args:       args,
		Logic:      logic,
		Datasets:   sets,
		Predicates: preds,
	}, nil
}

// Matches evaluates the compiled screen against an in-memory row, used by
// non-relational stores and tests. values maps field name to metric value;
// absent metrics are nil.
func (c *Compiled) Matches(values map[Field]*float64) bool {
	if len(c.Predicates) == 0 {
		return false
	}
	for _, p := range c.Predicates {
		ok := p.Matches(values[p.Field])
		if c.Logic == LogicOr && ok {
			return true
		}
		if c.Logic != LogicOr && !ok {
			return false
		}
	}
	return c.Logic != LogicOr
}
