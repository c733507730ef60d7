// Package archive parks order drafts for later recall, with an expiry past
// which they can no longer be loaded.
package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pos-terminal/internal/cart"
	"pos-terminal/internal/common/logger"
	"pos-terminal/internal/domain"
)

type Store interface {
	Save(ctx context.Context, o domain.StoredOrder) error
	Get(ctx context.Context, id string) (domain.StoredOrder, error)
	UpdateStatus(ctx context.Context, id string, status domain.StoredOrderStatus) error
	ListPending(ctx context.Context, now time.Time) ([]domain.StoredOrder, error)
	ExpirePending(ctx context.Context, now time.Time) (int64, error)
}

type Archive struct {
	store Store
	ttl   time.Duration
	lg    *logger.Logger
	now   func() time.Time
}

func New(store Store, ttl time.Duration, lg *logger.Logger) *Archive {
	return &Archive{store: store, ttl: ttl, lg: lg, now: time.Now}
}

// Store snapshots the cart as a pending order and clears the live cart.
func (a *Archive) Store(ctx context.Context, c *cart.Cart) (domain.StoredOrder, error) {
	lines, patron, policy, orderType, totals, _ := c.Snapshot()
	if len(lines) == 0 {
		return domain.StoredOrder{}, domain.ErrEmptyCart
	}

	now := a.now()
	o := domain.StoredOrder{
		ID:        uuid.NewString(),
		Lines:     lines,
		Patron:    patron,
		Policy:    policy,
		OrderType: orderType,
		Totals:    totals,
		CreatedAt: now,
		ExpiresAt: now.Add(a.ttl),
		Status:    domain.StoredPending,
	}
	if err := a.store.Save(ctx, o); err != nil {
		return domain.StoredOrder{}, err
	}

	c.Clear()
	a.lg.Info("order_stored", map[string]any{
		"stored_order_id": o.ID, "expires_at": o.ExpiresAt.Format(time.RFC3339),
	})
	return o, nil
}

// Recall loads a pending snapshot back into the cart. Expired or completed
// orders conflict; an order past its expiry is marked expired on the way
// out rather than handed back stale.
func (a *Archive) Recall(ctx context.Context, id string, c *cart.Cart) error {
	o, err := a.store.Get(ctx, id)
	if err != nil {
		return err
	}

	switch o.Status {
	case domain.StoredCompleted:
		return fmt.Errorf("%s: %w", id, domain.ErrStoredCompleted)
	case domain.StoredExpired:
		return fmt.Errorf("%s: %w", id, domain.ErrStoredExpired)
	}
	if a.now().After(o.ExpiresAt) {
		if err := a.store.UpdateStatus(ctx, id, domain.StoredExpired); err != nil {
			a.lg.Error("stored_order_expire_failed", err, map[string]any{"stored_order_id": id})
		}
		return fmt.Errorf("%s: %w", id, domain.ErrStoredExpired)
	}

	c.Restore(o)
	return nil
}

func (a *Archive) ListPending(ctx context.Context) ([]domain.StoredOrder, error) {
	return a.store.ListPending(ctx, a.now())
}

// Sweep marks every overdue pending order expired; scheduled every minute
// and safe to run at any time.
func (a *Archive) Sweep(ctx context.Context) (int64, error) {
	n, err := a.store.ExpirePending(ctx, a.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		a.lg.Info("stored_orders_expired", map[string]any{"count": n})
	}
	return n, nil
}
