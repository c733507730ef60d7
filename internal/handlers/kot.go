package handlers

import (
	"net/http"
	"time"

	"pos-terminal/internal/domain"
)

func (t *Terminal) listKOTs(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}
	kots, err := t.KOTs.ListForDay(r.Context(), date)
	if err != nil {
		t.writeErr(w, err)
		return
	}
	if kots == nil {
		kots = []domain.KOT{}
	}
	t.writeJSON(w, http.StatusOK, kots)
}

func (t *Terminal) getKOT(w http.ResponseWriter, r *http.Request) {
	kot, err := t.KOTs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		t.writeErr(w, err)
		return
	}
	t.writeJSON(w, http.StatusOK, kot)
}

// voidKOT is the manager override that removes a settled ticket entirely.
func (t *Terminal) voidKOT(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := t.KOTs.Void(r.Context(), id); err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Info("kot_voided", map[string]any{"kot_id": id})
	w.WriteHeader(http.StatusNoContent)
}

// refundLine removes every line of one item from a ticket and reports the
// refunded amount. An emptied ticket is deleted outright.
func (t *Terminal) refundLine(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req domain.RefundLineRequest
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if req.ItemID == "" {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "item_id is required"})
		return
	}
	refund, err := t.KOTs.RefundLine(r.Context(), id, req.ItemID)
	if err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Info("kot_line_refunded", map[string]any{"kot_id": id, "item_id": req.ItemID, "refund": refund})
	t.writeJSON(w, http.StatusOK, map[string]any{"refunded": refund})
}
