package handlers

import (
	"net/http"
	"time"

	"pos-terminal/internal/domain"
)

func (t *Terminal) storeOrder(w http.ResponseWriter, r *http.Request) {
	stored, err := t.Archive.Store(r.Context(), t.Cart)
	if err != nil {
		t.writeErr(w, err)
		return
	}
	t.writeJSON(w, http.StatusCreated, domain.StoreOrderResponse{
		StoredOrderID: stored.ID,
		ExpiresAt:     stored.ExpiresAt.Format(time.RFC3339),
	})
}

func (t *Terminal) recallOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := t.Archive.Recall(r.Context(), id, t.Cart); err != nil {
		t.writeErr(w, err)
		return
	}
	t.writeJSON(w, http.StatusOK, t.Cart.View())
}

func (t *Terminal) listStoredOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := t.Archive.ListPending(r.Context())
	if err != nil {
		t.writeErr(w, err)
		return
	}
	if orders == nil {
		orders = []domain.StoredOrder{}
	}
	t.writeJSON(w, http.StatusOK, orders)
}
