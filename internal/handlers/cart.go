package handlers

import (
	"net/http"
	"strconv"

	"pos-terminal/internal/domain"
)

func (t *Terminal) viewCart(w http.ResponseWriter, r *http.Request) {
	t.writeJSON(w, http.StatusOK, t.Cart.View())
}

func (t *Terminal) addItem(w http.ResponseWriter, r *http.Request) {
	var req domain.AddItemRequest
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	item, err := t.Menu.Get(r.Context(), req.ItemID)
	if err != nil {
		t.writeErr(w, err)
		return
	}
	if err := t.Cart.AddItem(r.Context(), item, req.Sauces); err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Debug("cart_item_added", map[string]any{"item_id": req.ItemID})
	t.writeJSON(w, http.StatusOK, t.Cart.View())
}

func (t *Terminal) setQuantity(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid line index"})
		return
	}
	var req domain.SetQuantityRequest
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if err := t.Cart.SetQuantity(index, req.Quantity); err != nil {
		t.writeErr(w, err)
		return
	}
	t.writeJSON(w, http.StatusOK, t.Cart.View())
}

func (t *Terminal) removeLine(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid line index"})
		return
	}
	if err := t.Cart.RemoveLine(index); err != nil {
		t.writeErr(w, err)
		return
	}
	t.writeJSON(w, http.StatusOK, t.Cart.View())
}

// bindPatron attaches a looked-up customer or employee to the open cart.
// Clocked-in employees are barred from the loyalty path entirely; binding
// them as an employee requires them to be clocked in.
func (t *Terminal) bindPatron(w http.ResponseWriter, r *http.Request) {
	var req domain.BindPatronRequest
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}

	var (
		patron domain.Patron
		err    error
	)
	switch req.Kind {
	case domain.PatronCustomer:
		patron, err = t.Identity.GetCustomer(r.Context(), req.ID)
		if err != nil {
			// An employee card scanned on the loyalty path gets a
			// precise rejection rather than "not found".
			if emp, empErr := t.Identity.GetEmployee(r.Context(), req.ID); empErr == nil && emp.ClockedIn {
				t.writeErr(w, domain.ErrLoyaltyClockedIn)
				return
			}
		}
	case domain.PatronEmployee:
		patron, err = t.Identity.GetEmployee(r.Context(), req.ID)
	default:
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "kind must be customer or employee"})
		return
	}
	if err != nil {
		t.writeErr(w, err)
		return
	}

	if err := t.Cart.BindPatron(patron); err != nil {
		t.writeErr(w, err)
		return
	}
	t.Log.Info("patron_bound", map[string]any{"kind": string(req.Kind), "patron_id": req.ID})
	t.writeJSON(w, http.StatusOK, t.Cart.View())
}

func (t *Terminal) clearCart(w http.ResponseWriter, r *http.Request) {
	t.Cart.Clear()
	t.Log.Debug("cart_cleared", nil)
	w.WriteHeader(http.StatusNoContent)
}
