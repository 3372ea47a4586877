// Package screener runs predefined and custom screens against the latest
// metric snapshots and summarizes the results.
package screener

import (
	"context"
	"fmt"
	"sort"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// Store executes a compiled screen against the latest snapshot join. The
// additional filters are AND-combined with the compiled expression on
// instrument fields only.
type Store interface {
	Query(ctx context.Context, compiled *criteria.Compiled, filters contracts.AdditionalFilters) ([]contracts.ScreenRow, error)
}

// Engine applies screens and records every run to the audit trail.
type Engine struct {
	store  Store
	audit  contracts.AuditLogger
	logger *logger.Logger
}

// NewEngine creates a screening engine.
func NewEngine(store Store, audit contracts.AuditLogger, log *logger.Logger) *Engine {
	return &Engine{
		store:  store,
		audit:  audit,
		logger: log,
	}
}

// RunPredefined runs one of the built-in screens by catalog key. Unknown keys
// fail with ErrUnknownScreen.
func (e *Engine) RunPredefined(ctx context.Context, key string, filters contracts.AdditionalFilters) (*contracts.ScreenResult, error) {
	screen, err := criteria.PredefinedScreen(key)
	if err != nil {
		e.audit.Log(ctx, "screen", fmt.Sprintf("screen=%s error=%v", key, err), "failure")
		return nil, err
	}
	return e.run(ctx, key, screen, filters)
}

// RunCustom runs an arbitrary screen definition.
func (e *Engine) RunCustom(ctx context.Context, screen criteria.Screen, filters contracts.AdditionalFilters) (*contracts.ScreenResult, error) {
	name := screen.Name
	if name == "" {
		name = "custom"
	}
	return e.run(ctx, name, screen, filters)
}

// run compiles, queries, orders and summarizes. Failures are audited and
// re-raised, never swallowed.
func (e *Engine) run(ctx context.Context, name string, screen criteria.Screen, filters contracts.AdditionalFilters) (*contracts.ScreenResult, error) {
	compiled, err := criteria.Compile(screen.Predicates, screen.Logic)
	if err != nil {
		e.audit.Log(ctx, "screen", fmt.Sprintf("screen=%s error=%v", name, err), "failure")
		return nil, err
	}

	rows, err := e.store.Query(ctx, compiled, filters)
	if err != nil {
		e.audit.Log(ctx, "screen", fmt.Sprintf("screen=%s error=%v", name, err), "failure")
		return nil, err
	}

	orderRows(rows)

	result := &contracts.ScreenResult{
		ScreenName:  name,
		Description: screen.Description,
		Rows:        rows,
		Stats:       ComputeStatistics(rows),
	}

	e.audit.Log(ctx, "screen", fmt.Sprintf("screen=%s matches=%d", name, len(rows)), "success")
	e.logger.WithFields(map[string]interface{}{
		"screen":  name,
		"matches": len(rows),
	}).Info("Screen completed")

	return result, nil
}

// orderRows sorts descending by ROE, then descending by market cap as a
// stable tie-break. Rows missing a metric sort after rows that have it.
func orderRows(rows []contracts.ScreenRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := compareDesc(rows[i].ROE, rows[j].ROE); c != 0 {
			return c < 0
		}
		return compareDesc(rows[i].MarketCap, rows[j].MarketCap) < 0
	})
}

// compareDesc returns -1 when a should sort before b in descending order,
// treating nil as smaller than any value.
func compareDesc(a, b *float64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	default:
		return 0
	}
}
