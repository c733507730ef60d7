package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pos-terminal/internal/domain"
)

type StoredOrderRepository struct {
	db *sql.DB
}

func NewStoredOrderRepository(db *sql.DB) *StoredOrderRepository {
	return &StoredOrderRepository{db: db}
}

func (r *StoredOrderRepository) Save(ctx context.Context, o domain.StoredOrder) error {
	payload, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal stored order: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO stored_orders (id, payload, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, o.ID, payload, o.Status, o.CreatedAt, o.ExpiresAt); err != nil {
		return fmt.Errorf("failed to save stored order: %w", err)
	}
	return nil
}

func (r *StoredOrderRepository) Get(ctx context.Context, id string) (domain.StoredOrder, error) {
	var (
		payload []byte
		status  domain.StoredOrderStatus
		expires time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, status, expires_at FROM stored_orders WHERE id = $1`, id,
	).Scan(&payload, &status, &expires)
	if err == sql.ErrNoRows {
		return domain.StoredOrder{}, fmt.Errorf("stored order %s: %w", id, domain.ErrStoredNotFound)
	}
	if err != nil {
		return domain.StoredOrder{}, fmt.Errorf("failed to load stored order %s: %w", id, err)
	}

	var o domain.StoredOrder
	if err := json.Unmarshal(payload, &o); err != nil {
		return domain.StoredOrder{}, fmt.Errorf("failed to unmarshal stored order %s: %w", id, err)
	}
	// status and expiry columns are authoritative over the snapshot
	o.Status = status
	o.ExpiresAt = expires
	return o, nil
}

// storedStatusConflict names the error for a record that is no longer
// pending, so callers hear "completed" or "expired" rather than "not found".
func storedStatusConflict(status domain.StoredOrderStatus) error {
	switch status {
	case domain.StoredCompleted:
		return domain.ErrStoredCompleted
	case domain.StoredExpired:
		return domain.ErrStoredExpired
	default:
		return domain.ErrStoredNotFound
	}
}

// UpdateStatus transitions a pending record; the status guard makes the
// transition race-safe (a record can only be completed or expired once).
func (r *StoredOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.StoredOrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stored_orders SET status = $2
		WHERE id = $1 AND status = $3
	`, id, status, domain.StoredPending)
	if err != nil {
		return fmt.Errorf("failed to update stored order %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var current domain.StoredOrderStatus
		err := r.db.QueryRowContext(ctx,
			`SELECT status FROM stored_orders WHERE id = $1`, id,
		).Scan(&current)
		if err == sql.ErrNoRows {
			return fmt.Errorf("stored order %s: %w", id, domain.ErrStoredNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check stored order %s: %w", id, err)
		}
		return fmt.Errorf("stored order %s: %w", id, storedStatusConflict(current))
	}
	return nil
}

// ListPending returns the recallable orders: pending and not yet expired.
func (r *StoredOrderRepository) ListPending(ctx context.Context, now time.Time) ([]domain.StoredOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload, status, expires_at FROM stored_orders
		WHERE status = $1 AND expires_at > $2
		ORDER BY created_at
	`, domain.StoredPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending stored orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.StoredOrder
	for rows.Next() {
		var (
			payload []byte
			status  domain.StoredOrderStatus
			expires time.Time
		)
		if err := rows.Scan(&payload, &status, &expires); err != nil {
			return nil, fmt.Errorf("failed to scan stored order: %w", err)
		}
		var o domain.StoredOrder
		if err := json.Unmarshal(payload, &o); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stored order: %w", err)
		}
		o.Status = status
		o.ExpiresAt = expires
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ExpirePending marks every pending record past its expiry as expired and
// returns how many were swept.
func (r *StoredOrderRepository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stored_orders SET status = $1
		WHERE status = $2 AND expires_at < $3
	`, domain.StoredExpired, domain.StoredPending, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire stored orders: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to expire stored orders: %w", err)
	}
	return n, nil
}
