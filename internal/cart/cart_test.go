package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/internal/domain"
)

type stubStock map[string]int

func (s stubStock) StockOnHand(_ context.Context, itemID string) (int, error) {
	return s[itemID], nil
}

var (
	burger = domain.MenuItem{ID: "itm01", Name: "Burger", Price: 8.5}
	wings  = domain.MenuItem{ID: "itm02", Name: "Wings", Price: 6.0, SauceOptions: []string{"bbq", "mayo", "hot"}}
)

func testCart() *Cart {
	return New(stubStock{"itm01": 10, "itm02": 10}, 20)
}

func TestAddItemMergesIdenticalLines(t *testing.T) {
	c := testCart()
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, burger, nil))
	require.NoError(t, c.AddItem(ctx, burger, nil))

	view := c.View()
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, 17.0, view.Total)
}

func TestAddItemSauceSets(t *testing.T) {
	c := testCart()
	ctx := context.Background()

	require.NoError(t, c.AddItem(ctx, wings, []string{"bbq", "mayo"}))
	require.NoError(t, c.AddItem(ctx, wings, []string{"mayo", "bbq"}))
	require.NoError(t, c.AddItem(ctx, wings, []string{"hot"}))

	view := c.View()
	require.Len(t, view.Lines, 2)
	// Sauce order does not split lines.
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, 1, view.Lines[1].Quantity)
}

func TestAddItemOutOfStock(t *testing.T) {
	c := New(stubStock{"itm01": 0}, 20)
	err := c.AddItem(context.Background(), burger, nil)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Equal(t, 0, c.Len())
}

func TestSetQuantity(t *testing.T) {
	c := testCart()
	require.NoError(t, c.AddItem(context.Background(), burger, nil))

	require.NoError(t, c.SetQuantity(0, 3))
	assert.Equal(t, 25.5, c.Totals().Total)

	assert.ErrorIs(t, c.SetQuantity(0, 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, c.SetQuantity(0, -2), domain.ErrInvalidQuantity)
	// Rejected updates leave the previous quantity alone.
	assert.Equal(t, 25.5, c.Totals().Total)

	assert.ErrorIs(t, c.SetQuantity(5, 1), domain.ErrLineOutOfRange)
}

func TestRemoveLine(t *testing.T) {
	c := testCart()
	ctx := context.Background()
	require.NoError(t, c.AddItem(ctx, burger, nil))
	require.NoError(t, c.AddItem(ctx, wings, []string{"hot"}))

	require.NoError(t, c.RemoveLine(0))
	view := c.View()
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "itm02", view.Lines[0].ItemID)

	assert.ErrorIs(t, c.RemoveLine(3), domain.ErrLineOutOfRange)
}

func TestBindPatron(t *testing.T) {
	t.Run("customer binds once and discounts apply", func(t *testing.T) {
		c := testCart()
		require.NoError(t, c.AddItem(context.Background(), burger, nil))

		customer := domain.Patron{Kind: domain.PatronCustomer, ID: "cus01", Points: 5}
		require.NoError(t, c.BindPatron(customer))

		totals := c.Totals()
		assert.Equal(t, 5.0, totals.Discount)
		assert.Equal(t, 3.5, totals.Total)

		assert.ErrorIs(t, c.BindPatron(customer), domain.ErrPatronBound)
	})

	t.Run("off-clock employee is rejected", func(t *testing.T) {
		c := testCart()
		emp := domain.Patron{Kind: domain.PatronEmployee, ID: "emp01", MealCredits: 10}
		assert.ErrorIs(t, c.BindPatron(emp), domain.ErrNotClockedIn)
	})

	t.Run("clocked-in employee binds without discount", func(t *testing.T) {
		c := testCart()
		require.NoError(t, c.AddItem(context.Background(), burger, nil))

		emp := domain.Patron{Kind: domain.PatronEmployee, ID: "emp01", MealCredits: 10, ClockedIn: true}
		require.NoError(t, c.BindPatron(emp))
		assert.Equal(t, 0.0, c.Totals().Discount)
	})
}

func TestConfiguredOnboardingCredit(t *testing.T) {
	c := New(stubStock{"itm01": 10}, 5)
	require.NoError(t, c.AddItem(context.Background(), domain.MenuItem{ID: "itm01", Name: "Burger", Price: 50}, nil))
	require.NoError(t, c.BindPatron(domain.Patron{Kind: domain.PatronCustomer, ID: "cus09", New: true}))

	totals := c.Totals()
	assert.Equal(t, 5.0, totals.Discount)
	assert.Equal(t, 45.0, totals.Total)
}

func TestClear(t *testing.T) {
	c := testCart()
	require.NoError(t, c.AddItem(context.Background(), burger, nil))
	require.NoError(t, c.BindPatron(domain.Patron{Kind: domain.PatronCustomer, ID: "cus01"}))

	c.Clear()

	view := c.View()
	assert.Empty(t, view.Lines)
	assert.Nil(t, view.Patron)
	assert.Equal(t, 0.0, view.Total)
	// A cleared cart accepts a new patron.
	assert.NoError(t, c.BindPatron(domain.Patron{Kind: domain.PatronCustomer, ID: "cus02"}))
}

func TestRestoreRoundTrip(t *testing.T) {
	c := testCart()
	ctx := context.Background()
	require.NoError(t, c.AddItem(ctx, wings, []string{"bbq"}))
	require.NoError(t, c.BindPatron(domain.Patron{Kind: domain.PatronCustomer, ID: "cus01", Points: 2}))

	lines, patron, policy, orderType, totals, _ := c.Snapshot()
	stored := domain.StoredOrder{
		ID:        "order-1",
		Lines:     lines,
		Patron:    patron,
		Policy:    policy,
		OrderType: orderType,
		Totals:    totals,
	}

	fresh := testCart()
	fresh.Restore(stored)

	_, _, _, _, restoredTotals, storedID := fresh.Snapshot()
	assert.Equal(t, totals, restoredTotals)
	assert.Equal(t, "order-1", storedID)
	assert.Equal(t, c.View().Lines, fresh.View().Lines)
}
