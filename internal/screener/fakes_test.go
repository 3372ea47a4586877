package screener

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
)

// memStore evaluates compiled screens in memory against fixed rows, the same
// way a relational store would after the latest-snapshot join.
type memStore struct {
	rows []contracts.ScreenRow
	err  error
}

func (s *memStore) Query(_ context.Context, compiled *criteria.Compiled, filters contracts.AdditionalFilters) ([]contracts.ScreenRow, error) {
	if s.err != nil {
		return nil, s.err
	}

	var out []contracts.ScreenRow
	for _, row := range s.rows {
		if !compiled.Matches(rowValues(row)) {
			continue
		}
		if !matchesFilters(row, filters) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func rowValues(r contracts.ScreenRow) map[criteria.Field]*float64 {
	return map[criteria.Field]*float64{
		criteria.FieldMarketCap:        r.MarketCap,
		criteria.FieldPrice:            r.Price,
		criteria.FieldPriceToBook:      r.PriceToBook,
		criteria.FieldPriceToEarnings:  r.PriceToEarnings,
		criteria.FieldEVEBITDA:         r.EVEBITDA,
		criteria.FieldROE:              r.ROE,
		criteria.FieldROCE:             r.ROCE,
		criteria.FieldDebtEquity:       r.DebtEquity,
		criteria.FieldCurrentRatio:     r.CurrentRatio,
		criteria.FieldInterestCoverage: r.InterestCoverage,
		criteria.FieldOPM:              r.OPM,
		criteria.FieldNPM:              r.NPM,
		criteria.FieldRevenueCAGR3Y:    r.RevenueCAGR3Y,
		criteria.FieldProfitCAGR3Y:     r.ProfitCAGR3Y,
		criteria.FieldPromoterHolding:  r.PromoterHolding,
		criteria.FieldAltmanZScore:     r.AltmanZScore,
		criteria.FieldOCFToNetProfit:   r.OCFToNetProfit,
		criteria.FieldEMA20:            r.EMA20,
		criteria.FieldEMA50:            r.EMA50,
		criteria.FieldMACD:             r.MACD,
		criteria.FieldChoppinessIndex:  r.ChoppinessIndex,
	}
}

func matchesFilters(r contracts.ScreenRow, f contracts.AdditionalFilters) bool {
	if len(f.Sectors) > 0 {
		ok := false
		for _, s := range f.Sectors {
			if strings.EqualFold(s, r.Sector) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.MinMarketCap != nil {
		if r.MarketCap == nil || *r.MarketCap < *f.MinMarketCap {
			return false
		}
	}
	return true
}

// memAudit records audit entries in memory.
type memAudit struct {
	mu      sync.Mutex
	entries []contracts.AuditEntry
}

func (a *memAudit) Log(_ context.Context, operation, details, status string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, contracts.AuditEntry{
		Timestamp: time.Now(),
		Operation: operation,
		Details:   details,
		Status:    status,
	})
}

func (a *memAudit) LastOperation(_ context.Context, operation string) (*contracts.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.entries) - 1; i >= 0; i-- {
		if a.entries[i].Operation == operation {
			e := a.entries[i]
			return &e, nil
		}
	}
	return nil, contracts.ErrNotFound
}

func (a *memAudit) last() *contracts.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.entries) == 0 {
		return nil
	}
	e := a.entries[len(a.entries)-1]
	return &e
}

// memScreenRepo is an in-memory ScreenRepository with upsert semantics.
type memScreenRepo struct {
	mu      sync.Mutex
	screens map[string]*contracts.CustomScreen
}

func newMemScreenRepo() *memScreenRepo {
	return &memScreenRepo{screens: map[string]*contracts.CustomScreen{}}
}

func (r *memScreenRepo) Save(_ context.Context, s *contracts.CustomScreen) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.screens[s.Name]; ok {
		// Upsert keeps the original creation time.
		s.CreatedAt = existing.CreatedAt
	}
	cp := *s
	r.screens[s.Name] = &cp
	return nil
}

func (r *memScreenRepo) Get(_ context.Context, name string) (*contracts.CustomScreen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.screens[name]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memScreenRepo) List(_ context.Context) ([]*contracts.CustomScreen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*contracts.CustomScreen, 0, len(r.screens))
	for _, s := range r.screens {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memScreenRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.screens[name]; !ok {
		return contracts.ErrNotFound
	}
	delete(r.screens, name)
	return nil
}

// fixedClock returns a constant time.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

func fp(v float64) *float64 { return &v }
