package handlers

import (
	"net/http"
	"time"

	"pos-terminal/internal/domain"
)

func (t *Terminal) getCashSession(w http.ResponseWriter, r *http.Request) {
	session, err := t.Cash.GetOpenSession(r.Context())
	if err != nil {
		t.writeErr(w, err)
		return
	}
	t.writeJSON(w, http.StatusOK, session)
}

func (t *Terminal) openCashSession(w http.ResponseWriter, r *http.Request) {
	var req domain.OpenCashSessionRequest
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if req.OpenedBy == "" {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "opened_by is required"})
		return
	}
	session, err := t.Cash.OpenSession(r.Context(), req.OpenedBy, req.OpeningBalance)
	if err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Info("cash_session_opened", map[string]any{"opened_by": req.OpenedBy, "opening_balance": req.OpeningBalance})
	t.writeJSON(w, http.StatusCreated, session)
}

func (t *Terminal) appendCashTxn(w http.ResponseWriter, r *http.Request) {
	var req domain.CashTxnRequest
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Type != domain.CashIn && req.Type != domain.CashOut {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "type must be in or out"})
		return
	}
	if req.Amount <= 0 {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "amount must be positive"})
		return
	}
	txn := domain.CashTxn{
		Type:   req.Type,
		Amount: req.Amount,
		By:     req.By,
		At:     time.Now().UTC(),
		Note:   req.Note,
	}
	if err := t.Cash.AppendTransaction(r.Context(), txn); err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Info("cash_transaction_recorded", map[string]any{"type": string(req.Type), "amount": req.Amount})
	w.WriteHeader(http.StatusCreated)
}

func (t *Terminal) pauseCashSession(w http.ResponseWriter, r *http.Request) {
	if err := t.Cash.SetPaused(r.Context(), true); err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Info("cash_session_paused", nil)
	w.WriteHeader(http.StatusNoContent)
}

func (t *Terminal) resumeCashSession(w http.ResponseWriter, r *http.Request) {
	if err := t.Cash.SetPaused(r.Context(), false); err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Info("cash_session_resumed", nil)
	w.WriteHeader(http.StatusNoContent)
}

func (t *Terminal) closeCashSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClosedBy string `json:"closed_by"`
	}
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	// Snapshot the session first so the close response can report the
	// expected drawer contents.
	session, err := t.Cash.GetOpenSession(r.Context())
	if err != nil {
		t.writeErr(w, err)
		return
	}
	if err := t.Cash.CloseSession(r.Context(), req.ClosedBy); err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Info("cash_session_closed", map[string]any{"closed_by": req.ClosedBy, "expected_cash": session.ExpectedCash()})
	t.writeJSON(w, http.StatusOK, map[string]any{"expected_cash": session.ExpectedCash()})
}
