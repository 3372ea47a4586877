package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenerlabs/equityscreener/internal/contracts"
)

// ScreenRepo implements contracts.ScreenRepository.
type ScreenRepo struct {
	pool *pgxpool.Pool
}

// NewScreenRepo creates a custom screen repository.
func NewScreenRepo(pool *pgxpool.Pool) *ScreenRepo {
	return &ScreenRepo{pool: pool}
}

// Save upserts by name: an existing screen is overwritten, keeping its
// original created_at and taking the new updated_at.
func (r *ScreenRepo) Save(ctx context.Context, s *contracts.CustomScreen) error {
	query := `
		INSERT INTO custom_screens (name, description, criteria, logic, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			criteria    = EXCLUDED.criteria,
			logic       = EXCLUDED.logic,
			updated_at  = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		s.Name, s.Description, s.Criteria, s.Logic, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save screen %s: %w", s.Name, err)
	}
	return nil
}

// Get fetches one screen by name.
func (r *ScreenRepo) Get(ctx context.Context, name string) (*contracts.CustomScreen, error) {
	query := `
		SELECT name, description, criteria, logic, created_at, updated_at
		FROM custom_screens
		WHERE name = $1
	`
	var s contracts.CustomScreen
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&s.Name, &s.Description, &s.Criteria, &s.Logic, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: screen %s", contracts.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get screen %s: %w", name, err)
	}
	return &s, nil
}

// List returns all custom screens ordered by name.
func (r *ScreenRepo) List(ctx context.Context) ([]*contracts.CustomScreen, error) {
	query := `
		SELECT name, description, criteria, logic, created_at, updated_at
		FROM custom_screens
		ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list screens: %w", err)
	}
	defer rows.Close()

	var out []*contracts.CustomScreen
	for rows.Next() {
		var s contracts.CustomScreen
		if err := rows.Scan(&s.Name, &s.Description, &s.Criteria, &s.Logic, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan screen: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Delete removes a screen by name. Deleting an absent name fails with
// ErrNotFound.
func (r *ScreenRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM custom_screens WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete screen %s: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: screen %s", contracts.ErrNotFound, name)
	}
	return nil
}
