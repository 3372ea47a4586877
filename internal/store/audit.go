package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/screenerlabs/equityscreener/internal/contracts"
	"github.com/screenerlabs/equityscreener/pkg/logger"
)

// AuditRepo implements contracts.AuditLogger. Log never fails the operation
// being audited; insert errors are logged and swallowed.
type AuditRepo struct {
	pool   *pgxpool.Pool
	clock  contracts.Clock
	logger *logger.Logger
}

// NewAuditRepo creates an audit logger backed by the audit_log table.
func NewAuditRepo(pool *pgxpool.Pool, clock contracts.Clock, log *logger.Logger) *AuditRepo {
	return &AuditRepo{pool: pool, clock: clock, logger: log}
}

// Log appends one audit entry.
func (r *AuditRepo) Log(ctx context.Context, operation, details, status string) {
	query := `
		INSERT INTO audit_log (id, ts, operation, details, username, status)
		VALUES ($1, $2, $3, $4, 'system', $5)
	`
	_, err := r.pool.Exec(ctx, query, uuid.NewString(), r.clock.Now(), operation, details, status)
	if err != nil {
		r.logger.WithError(err).WithField("operation", operation).Error("Audit write failed")
	}
}

// LastOperation returns the most recent audit entry for an operation.
func (r *AuditRepo) LastOperation(ctx context.Context, operation string) (*contracts.AuditEntry, error) {
	query := `
		SELECT id, ts, operation, details, username, status
		FROM audit_log
		WHERE operation = $1
		ORDER BY ts DESC
		LIMIT 1
	`
	var e contracts.AuditEntry
	err := r.pool.QueryRow(ctx, query, operation).Scan(
		&e.ID, &e.Timestamp, &e.Operation, &e.Details, &e.User, &e.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: audit %s", contracts.ErrNotFound, operation)
	}
	if err != nil {
		return nil, fmt.Errorf("last operation %s: %w", operation, err)
	}
	return &e, nil
}
