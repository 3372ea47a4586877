package screener

import (
	"context"
	"fmt"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// Registry manages durable user-named screens. Save validates before
// persisting and upserts by name: saving over an existing screen silently
// replaces it and refreshes updated_at.
type Registry struct {
	repo   contracts.ScreenRepository
	clock  contracts.Clock
	logger *logger.Logger
}

// NewRegistry creates a custom screen registry.
func NewRegistry(repo contracts.ScreenRepository, clock contracts.Clock, log *logger.Logger) *Registry {
	return &Registry{
		repo:   repo,
		clock:  clock,
		logger: log,
	}
}

// Save validates and persists a screen definition. The criteria set is
// rejected atomically before anything reaches the store.
func (r *Registry) Save(ctx context.Context, name, description string, preds []criteria.Predicate, logic criteria.Logic) (*contracts.CustomScreen, error) {
	if name == "" {
		return nil, &contracts.ValidationError{Field: "name", Reason: "screen name is required"}
	}
	normalized, err := criteria.ParseLogic(string(logic))
	if err != nil {
		return nil, err
	}
	if err := criteria.Validate(preds); err != nil {
		return nil, err
	}

	raw, err := criteria.MarshalPredicates(preds)
	if err != nil {
		return nil, fmt.Errorf("encode criteria: %w", err)
	}

	now := r.clock.Now()
	screen := &contracts.CustomScreen{
		Name:        name,
		Description: description,
		Criteria:    raw,
		Logic:       string(normalized),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.repo.Save(ctx, screen); err != nil {
		return nil, err
	}

	r.logger.WithField("screen", name).Info("Custom screen saved")
	return screen, nil
}

// Get loads a stored screen and decodes it back into an executable
// definition. Stored criteria are re-validated on load.
func (r *Registry) Get(ctx context.Context, name string) (criteria.Screen, error) {
	stored, err := r.repo.Get(ctx, name)
	if err != nil {
		return criteria.Screen{}, err
	}

	preds, err := criteria.UnmarshalPredicates(stored.Criteria)
	if err != nil {
		return criteria.Screen{}, fmt.Errorf("screen %q: %w", name, err)
	}
	logic, err := criteria.ParseLogic(stored.Logic)
	if err != nil {
		return criteria.Screen{}, fmt.Errorf("screen %q: %w", name, err)
	}

	return criteria.Screen{
		Name:        stored.Name,
		Description: stored.Description,
		Predicates:  preds,
		Logic:       logic,
	}, nil
}

// List returns all stored screens.
func (r *Registry) List(ctx context.Context) ([]*contracts.CustomScreen, error) {
	return r.repo.List(ctx)
}

// Delete removes a stored screen by name.
func (r *Registry) Delete(ctx context.Context, name string) error {
	if err := r.repo.Delete(ctx, name); err != nil {
		return err
	}
	r.logger.WithField("screen", name).Info("Custom screen deleted")
	return nil
}
