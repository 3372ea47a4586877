package screener

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/internal/criteria"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

func newTestRegistry(now time.Time) (*Registry, *memScreenRepo) {
	repo := newMemScreenRepo()
	return NewRegistry(repo, fixedClock{t: now}, logger.Nop()), repo
}

func TestRegistrySaveAndGetRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	registry, _ := newTestRegistry(now)
	ctx := context.Background()

	preds := []criteria.Predicate{
		{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(18)},
		{Field: criteria.FieldDebtEquity, Operator: criteria.OpLT, Value: fp(1)},
	}
	saved, err := registry.Save(ctx, "my-screen", "high quality", preds, criteria.LogicAnd)
	require.NoError(t, err)
	assert.Equal(t, now, saved.CreatedAt)
	assert.Equal(t, now, saved.UpdatedAt)

	screen, err := registry.Get(ctx, "my-screen")
	require.NoError(t, err)
	assert.Equal(t, "my-screen", screen.Name)
	assert.Equal(t, criteria.LogicAnd, screen.Logic)
	require.Len(t, screen.Predicates, 2)
	assert.Equal(t, criteria.FieldROE, screen.Predicates[0].Field)
}

func TestRegistrySaveIsUpsert(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	registry, repo := newTestRegistry(created)
	ctx := context.Background()

	preds := []criteria.Predicate{
		{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(18)},
	}
	_, err := registry.Save(ctx, "my-screen", "v1", preds, criteria.LogicAnd)
	require.NoError(t, err)

	// Save again later under the same name: silent overwrite, updated_at
	// refreshed, created_at preserved.
	later := created.Add(72 * time.Hour)
	registry.clock = fixedClock{t: later}

	preds[0].Value = fp(25)
	_, err = registry.Save(ctx, "my-screen", "v2", preds, criteria.LogicOr)
	require.NoError(t, err)

	stored, err := repo.Get(ctx, "my-screen")
	require.NoError(t, err)
	assert.Equal(t, "v2", stored.Description)
	assert.Equal(t, "OR", stored.Logic)
	assert.Equal(t, created, stored.CreatedAt)
	assert.Equal(t, later, stored.UpdatedAt)

	screen, err := registry.Get(ctx, "my-screen")
	require.NoError(t, err)
	assert.Equal(t, 25.0, *screen.Predicates[0].Value)
}

func TestRegistryRejectsInvalidBeforePersist(t *testing.T) {
	registry, repo := newTestRegistry(time.Now())
	ctx := context.Background()

	_, err := registry.Save(ctx, "bad", "", []criteria.Predicate{
		{Field: "magic_ratio", Operator: criteria.OpGT, Value: fp(1)},
	}, criteria.LogicAnd)
	require.Error(t, err)
	assert.True(t, contracts.IsValidation(err))

	_, err = registry.Save(ctx, "", "", []criteria.Predicate{
		{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(1)},
	}, criteria.LogicAnd)
	require.Error(t, err)

	_, err = registry.Save(ctx, "bad-logic", "", []criteria.Predicate{
		{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(1)},
	}, criteria.Logic("XOR"))
	require.Error(t, err)

	// Nothing reached the store.
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegistryGetUnknown(t *testing.T) {
	registry, _ := newTestRegistry(time.Now())

	_, err := registry.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}

func TestRegistryDelete(t *testing.T) {
	registry, _ := newTestRegistry(time.Now())
	ctx := context.Background()

	_, err := registry.Save(ctx, "doomed", "", []criteria.Predicate{
		{Field: criteria.FieldROE, Operator: criteria.OpGT, Value: fp(1)},
	}, criteria.LogicAnd)
	require.NoError(t, err)

	require.NoError(t, registry.Delete(ctx, "doomed"))

	_, err = registry.Get(ctx, "doomed")
	assert.True(t, errors.Is(err, contracts.ErrNotFound))

	err = registry.Delete(ctx, "doomed")
	assert.True(t, errors.Is(err, contracts.ErrNotFound))
}
