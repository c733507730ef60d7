// Package cart holds the mutable order being built on the terminal. Every
// mutation recomputes totals synchronously; the only I/O is a read-only
// stock lookup when an item is added.
package cart

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

type StockReader interface {
	StockOnHand(ctx context.Context, itemID string) (int, error)
}

type Cart struct {
	mu    sync.Mutex
	stock StockReader

	onboardingCredit float64

	lines         []domain.OrderLine
	patron        *domain.Patron
	policy        domain.DiscountPolicy
	orderType     domain.OrderType
	totals        domain.Totals
	storedOrderID string
}

// New builds an empty cart. onboardingCredit is the configured first-order
// customer credit applied by the pricing engine.
func New(stock StockReader, onboardingCredit float64) *Cart {
	return &Cart{
		stock:            stock,
		onboardingCredit: onboardingCredit,
		policy:           domain.DiscountNone,
		orderType:        domain.OrderDineIn,
	}
}

// AddItem appends a line for the item, or bumps the quantity when a line
// with the same item and sauce set already exists. Items with no stock on
// hand are refused.
func (c *Cart) AddItem(ctx context.Context, item domain.MenuItem, sauces []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stock != nil {
		onHand, err := c.stock.StockOnHand(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("stock lookup for %s: %w", item.ID, err)
		}
		if onHand <= 0 {
			return fmt.Errorf("%s: %w", item.Name, domain.ErrOutOfStock)
		}
	}

	key := mergeKey(item.ID, sauces)
	for i := range c.lines {
		if mergeKey(c.lines[i].ItemID, c.lines[i].Sauces) == key {
			c.lines[i].Quantity++
			c.recompute()
			return nil
		}
	}

	c.lines = append(c.lines, domain.OrderLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
		Sauces:   append([]string(nil), sauces...),
	})
	c.recompute()
	return nil
}

// SetQuantity replaces a line's quantity; non-positive values are rejected
// and the previous quantity is kept.
func (c *Cart) SetQuantity(index, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.lines) {
		return domain.ErrLineOutOfRange
	}
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	c.lines[index].Quantity = qty
	c.recompute()
	return nil
}

func (c *Cart) RemoveLine(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.lines) {
		return domain.ErrLineOutOfRange
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	c.recompute()
	return nil
}

// BindPatron attaches a customer or employee to the order. Employees must
// be clocked in to redeem meal credits, and binding one disables loyalty
// discounting for the order.
func (c *Cart) BindPatron(p domain.Patron) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.patron != nil {
		return domain.ErrPatronBound
	}
	if p.Kind == domain.PatronEmployee && !p.ClockedIn {
		return domain.ErrNotClockedIn
	}

	c.patron = &p
	c.policy = pricing.PolicyFor(&p)
	c.recompute()
	return nil
}

// Clear resets the cart to the empty, unbound state.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.patron = nil
	c.policy = domain.DiscountNone
	c.orderType = domain.OrderDineIn
	c.totals = domain.Totals{}
	c.storedOrderID = ""
}

// Restore loads a recalled stored order into the cart, replacing whatever
// was there.
func (c *Cart) Restore(o domain.StoredOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append([]domain.OrderLine(nil), o.Lines...)
	c.patron = o.Patron
	c.policy = o.Policy
	c.orderType = o.OrderType
	c.storedOrderID = o.ID
	c.recompute()
}

// Snapshot returns a copy of the cart state for settlement or parking.
func (c *Cart) Snapshot() (lines []domain.OrderLine, patron *domain.Patron, policy domain.DiscountPolicy, orderType domain.OrderType, totals domain.Totals, storedID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines = append([]domain.OrderLine(nil), c.lines...)
	if c.patron != nil {
		p := *c.patron
		patron = &p
	}
	return lines, patron, c.policy, c.orderType, c.totals, c.storedOrderID
}

func (c *Cart) Totals() domain.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) View() domain.CartView {
	lines, patron, _, orderType, totals, _ := c.Snapshot()
	return domain.CartView{
		Lines:     lines,
		Patron:    patron,
		OrderType: orderType,
		Subtotal:  totals.Subtotal,
		Discount:  totals.Discount,
		Total:     totals.Total,
	}
}

// callers hold c.mu
func (c *Cart) recompute() {
	c.totals = pricing.Recompute(c.lines, c.patron, c.policy, c.onboardingCredit)
}

func mergeKey(itemID string, sauces []string) string {
	s := append([]string(nil), sauces...)
	sort.Strings(s)
	return itemID + "|" + strings.Join(s, ",")
}
