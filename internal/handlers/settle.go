package handlers

import (
	"net/http"

	"pos-terminal/internal/domain"
)

// settle commits the open cart. The order type defaults to whatever the
// cart carries (dine-in unless changed); the payment shape is validated by
// the engine, not here.
func (t *Terminal) settle(w http.ResponseWriter, r *http.Request) {
	var req domain.SettleRequest
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}

	orderType := req.OrderType
	if orderType == "" {
		_, _, _, ot, _, _ := t.Cart.Snapshot()
		orderType = ot
	}
	if orderType != domain.OrderDineIn && orderType != domain.OrderTakeaway {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "order_type must be dine_in or takeaway"})
		return
	}

	pay := domain.Payment{
		Kind:             req.Method,
		Tendered:         req.Tendered,
		CashPortion:      req.CashPortion,
		AllowUnderTender: req.AllowUnderTender,
	}

	res, err := t.Engine.Settle(r.Context(), t.Cart, orderType, pay)
	if err != nil {
		t.writeErr(w, err)
		return
	}

	t.writeJSON(w, http.StatusCreated, domain.SettleResponse{
		KOTID:        res.KOT.ID,
		Amount:       res.KOT.Amount,
		CreditsUsed:  res.CreditsUsed,
		CashDue:      res.CashDue,
		CashPaid:     res.KOT.CashPaid,
		CardPaid:     res.KOT.CardPaid,
		ChangeDue:    res.ChangeDue,
		EarnedPoints: res.EarnedPoints,
		Warnings:     res.Warnings,
	})
}
