package settlement

import (
	"fmt"

	"pos-terminal/internal/domain"
)

type State string

const (
	StateIdle            State = "idle"
	StateChoosingType    State = "choosing_order_type"
	StateChoosingPatron  State = "choosing_patron"
	StateChoosingPayment State = "choosing_payment_method"
	StateProcessing      State = "processing"
	StateSettled         State = "settled"
	StateFailed          State = "failed"
)

// Checkout tracks where a settlement attempt sits. Order-type and patron
// selection are optional steps; an employee patron skips payment method
// selection entirely. Cancel is allowed anywhere before Processing and has
// no side effects.
type Checkout struct {
	state State
}

func NewCheckout() *Checkout { return &Checkout{state: StateIdle} }

func (c *Checkout) State() State { return c.state }

// Begin refuses to start on an empty cart.
func (c *Checkout) Begin(cartLines int) error {
	if c.state != StateIdle && c.state != StateFailed {
		return fmt.Errorf("settlement already in progress (state %s)", c.state)
	}
	if cartLines == 0 {
		return domain.ErrEmptyCart
	}
	c.state = StateChoosingType
	return nil
}

func (c *Checkout) ChooseOrderType() { c.advanceTo(StateChoosingPatron) }

// ChoosePatron moves past patron selection whether one was bound or the
// operator skipped loyalty.
func (c *Checkout) ChoosePatron() { c.advanceTo(StateChoosingPayment) }

func (c *Checkout) beginProcessing() { c.state = StateProcessing }
func (c *Checkout) settle()          { c.state = StateSettled }
func (c *Checkout) fail()            { c.state = StateFailed }

// Cancel abandons the attempt; the cart and backing store are untouched.
func (c *Checkout) Cancel() {
	if c.state != StateProcessing {
		c.state = StateIdle
	}
}

func (c *Checkout) advanceTo(s State) {
	switch c.state {
	case StateChoosingType, StateChoosingPatron, StateChoosingPayment:
		c.state = s
	}
}
