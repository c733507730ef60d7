package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/internal/cart"
	"pos-terminal/internal/common/logger"
	"pos-terminal/internal/domain"
)

type memStore struct {
	orders map[string]domain.StoredOrder
}

func newMemStore() *memStore {
	return &memStore{orders: make(map[string]domain.StoredOrder)}
}

func (m *memStore) Save(_ context.Context, o domain.StoredOrder) error {
	m.orders[o.ID] = o
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (domain.StoredOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return domain.StoredOrder{}, domain.ErrStoredNotFound
	}
	return o, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id string, status domain.StoredOrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return domain.ErrStoredNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

func (m *memStore) ListPending(_ context.Context, now time.Time) ([]domain.StoredOrder, error) {
	var out []domain.StoredOrder
	for _, o := range m.orders {
		if o.Status == domain.StoredPending && now.Before(o.ExpiresAt) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) ExpirePending(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, o := range m.orders {
		if o.Status == domain.StoredPending && now.After(o.ExpiresAt) {
			o.Status = domain.StoredExpired
			m.orders[id] = o
			n++
		}
	}
	return n, nil
}

func testArchive(store Store) (*Archive, *time.Time) {
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)
	a := New(store, 30*time.Minute, logger.New("archive-test"))
	a.now = func() time.Time { return now }
	return a, &now
}

func cartWithBurger(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New(nil, 20)
	item := domain.MenuItem{ID: "itm01", Name: "Burger", Price: 8.5}
	require.NoError(t, c.AddItem(context.Background(), item, nil))
	return c
}

func TestStoreAndRecall(t *testing.T) {
	store := newMemStore()
	a, _ := testArchive(store)
	c := cartWithBurger(t)
	original := c.View()

	stored, err := a.Store(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, domain.StoredPending, stored.Status)
	assert.Equal(t, stored.CreatedAt.Add(30*time.Minute), stored.ExpiresAt)
	assert.Zero(t, c.Len(), "storing clears the live cart")

	require.NoError(t, a.Recall(context.Background(), stored.ID, c))
	assert.Equal(t, original.Lines, c.View().Lines)
	assert.Equal(t, original.Total, c.View().Total)

	// The recalled cart remembers which stored order it came from.
	_, _, _, _, _, storedID := c.Snapshot()
	assert.Equal(t, stored.ID, storedID)
}

func TestStoreEmptyCart(t *testing.T) {
	a, _ := testArchive(newMemStore())
	_, err := a.Store(context.Background(), cart.New(nil, 20))
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestRecallMissing(t *testing.T) {
	a, _ := testArchive(newMemStore())
	err := a.Recall(context.Background(), "nope", cart.New(nil, 20))
	assert.ErrorIs(t, err, domain.ErrStoredNotFound)
}

func TestRecallConflicts(t *testing.T) {
	store := newMemStore()
	a, _ := testArchive(store)
	c := cartWithBurger(t)

	stored, err := a.Store(context.Background(), c)
	require.NoError(t, err)

	t.Run("completed", func(t *testing.T) {
		require.NoError(t, store.UpdateStatus(context.Background(), stored.ID, domain.StoredCompleted))
		err := a.Recall(context.Background(), stored.ID, c)
		assert.ErrorIs(t, err, domain.ErrStoredCompleted)
	})

	t.Run("expired", func(t *testing.T) {
		require.NoError(t, store.UpdateStatus(context.Background(), stored.ID, domain.StoredExpired))
		err := a.Recall(context.Background(), stored.ID, c)
		assert.ErrorIs(t, err, domain.ErrStoredExpired)
	})
}

func TestRecallPastExpiry(t *testing.T) {
	store := newMemStore()
	a, now := testArchive(store)
	c := cartWithBurger(t)

	stored, err := a.Store(context.Background(), c)
	require.NoError(t, err)

	*now = now.Add(31 * time.Minute)
	err = a.Recall(context.Background(), stored.ID, c)
	assert.ErrorIs(t, err, domain.ErrStoredExpired)
	assert.Zero(t, c.Len(), "an expired snapshot never reaches the cart")

	// And it is now marked expired in the store, not just refused once.
	assert.Equal(t, domain.StoredExpired, store.orders[stored.ID].Status)
}

func TestSweep(t *testing.T) {
	store := newMemStore()
	a, now := testArchive(store)

	for i := 0; i < 3; i++ {
		c := cartWithBurger(t)
		_, err := a.Store(context.Background(), c)
		require.NoError(t, err)
	}

	n, err := a.Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "nothing due yet")

	*now = now.Add(time.Hour)
	n, err = a.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	pending, err := a.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}
