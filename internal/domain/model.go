package domain

import "time"

type OrderType string

const (
	OrderDineIn   OrderType = "dine_in"
	OrderTakeaway OrderType = "takeaway"
)

type PatronKind string

const (
	PatronCustomer PatronKind = "customer"
	PatronEmployee PatronKind = "employee"
)

// MenuItem is immutable reference data; SauceOptions is the modifier group
// the terminal offers when the item is added.
type MenuItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Category     string   `json:"category"`
	SauceOptions []string `json:"sauce_options,omitempty"`
}

// OrderLine snapshots name and price at the moment the item is added so a
// later menu change never alters an open or settled order.
type OrderLine struct {
	ItemID   string   `json:"item_id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Quantity int      `json:"quantity"`
	Sauces   []string `json:"sauces,omitempty"`
}

func (l OrderLine) Amount() float64 { return l.Price * float64(l.Quantity) }

// Patron is a tagged union: Kind selects which fields are meaningful.
// Points only for customers, MealCredits/ClockedIn only for employees.
type Patron struct {
	Kind        PatronKind `json:"kind"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Points      int        `json:"points,omitempty"`       // customer loyalty balance, one point = one pound of credit
	MealCredits float64    `json:"meal_credits,omitempty"` // employee spendable meal balance
	ClockedIn   bool       `json:"clocked_in,omitempty"`
	New         bool       `json:"new,omitempty"` // customer created during this checkout
}

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// DiscountPolicy is picked once per checkout; at most one source is active.
type DiscountPolicy string

const (
	DiscountNone             DiscountPolicy = "none"
	DiscountLoyaltyPercent   DiscountPolicy = "loyalty_percent"
	DiscountCreditRedemption DiscountPolicy = "credit_redemption"
	DiscountOnboardingCredit DiscountPolicy = "onboarding_credit"
)

type PaymentKind string

const (
	PayCash            PaymentKind = "cash"
	PayCard            PaymentKind = "card"
	PaySplit           PaymentKind = "split"
	PayEmployeeCredits PaymentKind = "employee_credits"
)

// Payment is resolved once at the start of settlement instead of being
// re-derived from scattered flags.
type Payment struct {
	Kind        PaymentKind
	Tendered    float64 // cash: amount handed over; employee_credits: cash covering the remainder
	CashPortion float64 // split only, must be 0 < CashPortion < total
	// AllowUnderTender lets the operator explicitly accept cash below the
	// total; it is never implied.
	AllowUnderTender bool
}

// KOT is the settled, immutable sale record. Only a manager void or refund
// may touch it afterwards.
type KOT struct {
	ID            string      `json:"id"`
	SettledAt     time.Time   `json:"settled_at"`
	Lines         []OrderLine `json:"lines"`
	Amount        float64     `json:"amount"`
	PatronID      string      `json:"patron_id,omitempty"`
	PatronKind    PatronKind  `json:"patron_kind,omitempty"`
	EarnedPoints  int         `json:"earned_points,omitempty"`
	CreditsUsed   float64     `json:"credits_used,omitempty"`
	CashPaid      float64     `json:"cash_paid,omitempty"`
	CardPaid      float64     `json:"card_paid,omitempty"`
	ChangeDue     float64     `json:"change_due,omitempty"`
	OrderType     OrderType   `json:"order_type"`
	PaymentMethod PaymentKind `json:"payment_method"`
}

type StoredOrderStatus string

const (
	StoredPending   StoredOrderStatus = "pending"
	StoredCompleted StoredOrderStatus = "completed"
	StoredExpired   StoredOrderStatus = "expired"
)

// StoredOrder is a parked cart snapshot with a recall deadline.
type StoredOrder struct {
	ID        string            `json:"id"`
	Lines     []OrderLine       `json:"lines"`
	Patron    *Patron           `json:"patron,omitempty"`
	Policy    DiscountPolicy    `json:"policy"`
	OrderType OrderType         `json:"order_type"`
	Totals    Totals            `json:"totals"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Status    StoredOrderStatus `json:"status"`
}

type CashTxnType string

const (
	CashIn  CashTxnType = "in"
	CashOut CashTxnType = "out"
)

type CashTxn struct {
	Type   CashTxnType `json:"type"`
	Amount float64     `json:"amount"`
	By     string      `json:"by"`
	At     time.Time   `json:"at"`
	Note   string      `json:"note,omitempty"`
}

// CashSession is the per-till drawer ledger. At most one session is open
// (Closed=false) at a time.
type CashSession struct {
	ID             int64      `json:"id"`
	OpenedBy       string     `json:"opened_by"`
	OpenedAt       time.Time  `json:"opened_at"`
	OpeningBalance float64    `json:"opening_balance"`
	Paused         bool       `json:"paused"`
	Closed         bool       `json:"closed"`
	ClosedBy       string     `json:"closed_by,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	Transactions   []CashTxn  `json:"transactions,omitempty"`
}

// ExpectedCash is opening balance plus ins minus outs.
func (s CashSession) ExpectedCash() float64 {
	total := s.OpeningBalance
	for _, t := range s.Transactions {
		switch t.Type {
		case CashIn:
			total += t.Amount
		case CashOut:
			total -= t.Amount
		}
	}
	return total
}

type InventoryRecord struct {
	ItemID      string    `json:"item_id"`
	StockOnHand int       `json:"stock_on_hand"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type LoyaltyEntry struct {
	CustomerID string
	Type       string // earn | redeem
	Points     int
	KOTID      string
	At         time.Time
}
