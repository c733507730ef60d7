package domain

// HTTP request/response shapes for the terminal service.

type AddItemRequest struct {
	ItemID string   `json:"item_id"`
	Sauces []string `json:"sauces,omitempty"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type BindPatronRequest struct {
	Kind PatronKind `json:"kind"`
	ID   string     `json:"id"`
}

type CartView struct {
	Lines     []OrderLine `json:"lines"`
	Patron    *Patron     `json:"patron,omitempty"`
	OrderType OrderType   `json:"order_type"`
	Subtotal  float64     `json:"subtotal"`
	Discount  float64     `json:"discount"`
	Total     float64     `json:"total"`
}

type SettleRequest struct {
	OrderType        OrderType   `json:"order_type,omitempty"`
	Method           PaymentKind `json:"method"`
	Tendered         float64     `json:"tendered,omitempty"`
	CashPortion      float64     `json:"cash_portion,omitempty"`
	AllowUnderTender bool        `json:"allow_under_tender,omitempty"`
}

type SettleResponse struct {
	KOTID        string   `json:"kot_id"`
	Amount       float64  `json:"amount"`
	CreditsUsed  float64  `json:"credits_used,omitempty"`
	CashDue      float64  `json:"cash_due,omitempty"`
	CashPaid     float64  `json:"cash_paid,omitempty"`
	CardPaid     float64  `json:"card_paid,omitempty"`
	ChangeDue    float64  `json:"change_due,omitempty"`
	EarnedPoints int      `json:"earned_points,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

type StoreOrderResponse struct {
	StoredOrderID string `json:"stored_order_id"`
	ExpiresAt     string `json:"expires_at"`
}

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type SearchPatronResponse struct {
	Results []Patron `json:"results"`
}

type OpenCashSessionRequest struct {
	OpenedBy       string  `json:"opened_by"`
	OpeningBalance float64 `json:"opening_balance"`
}

type CashTxnRequest struct {
	Type   CashTxnType `json:"type"`
	Amount float64     `json:"amount"`
	By     string      `json:"by"`
	Note   string      `json:"note,omitempty"`
}

type RefundLineRequest struct {
	ItemID string `json:"item_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
