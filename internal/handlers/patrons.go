package handlers

import (
	"net/http"

	"pos-terminal/internal/domain"
)

// searchPatrons looks up customers and employees in one pass by phone or
// id. Clocked-in employees are included so the operator can see why the
// loyalty path will reject them.
func (t *Terminal) searchPatrons(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "term query parameter is required"})
		return
	}
	results, err := t.Identity.FindByPhoneOrID(r.Context(), term)
	if err != nil {
		t.writeErr(w, err)
		return
	}
	if results == nil {
		results = []domain.Patron{}
	}
	t.writeJSON(w, http.StatusOK, domain.SearchPatronResponse{Results: results})
}

// createCustomer registers a new loyalty customer and binds them to the
// open cart so the one-time onboarding credit applies to this checkout.
func (t *Terminal) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if err := decode(r, &req); err != nil {
		t.writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	patron, err := t.Identity.CreateCustomer(r.Context(), req.Name, req.Phone)
	if err != nil {
		t.writeErr(w, err)
		return
	}
	if err := t.Cart.BindPatron(patron); err != nil {
		// The customer exists either way; report the bind failure.
		t.writeErr(w, err)
		return
	}
	t.Log.Info("customer_created", map[string]any{"customer_id": patron.ID})
	t.writeJSON(w, http.StatusCreated, patron)
}
