package handlers

import (
	"encoding/json"
	"net/http"

	"pos-terminal/internal/archive"
	"pos-terminal/internal/cart"
	"pos-terminal/internal/common/logger"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/repository"
	"pos-terminal/internal/settlement"
)

// Terminal wires the single-terminal cart and engines to the HTTP surface.
type Terminal struct {
	Cart      *cart.Cart
	Engine    *settlement.Engine
	Archive   *archive.Archive
	Menu      *repository.MenuRepository
	Inventory *repository.InventoryRepository
	Identity  *repository.IdentityRepository
	Cash      *repository.CashRepository
	KOTs      *repository.KOTRepository
	Log       *logger.Logger
}

func (t *Terminal) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /menu", t.listMenu)
	mux.HandleFunc("GET /inventory", t.listInventory)

	mux.HandleFunc("GET /cart", t.viewCart)
	mux.HandleFunc("POST /cart/items", t.addItem)
	mux.HandleFunc("PUT /cart/items/{index}", t.setQuantity)
	mux.HandleFunc("DELETE /cart/items/{index}", t.removeLine)
	mux.HandleFunc("POST /cart/patron", t.bindPatron)
	mux.HandleFunc("DELETE /cart", t.clearCart)

	mux.HandleFunc("POST /settle", t.settle)

	mux.HandleFunc("POST /cart/store", t.storeOrder)
	mux.HandleFunc("POST /cart/recall/{id}", t.recallOrder)
	mux.HandleFunc("GET /stored-orders", t.listStoredOrders)

	mux.HandleFunc("GET /patrons", t.searchPatrons)
	mux.HandleFunc("POST /customers", t.createCustomer)

	mux.HandleFunc("GET /cash-session", t.getCashSession)
	mux.HandleFunc("POST /cash-session", t.openCashSession)
	mux.HandleFunc("POST /cash-session/transactions", t.appendCashTxn)
	mux.HandleFunc("POST /cash-session/pause", t.pauseCashSession)
	mux.HandleFunc("POST /cash-session/resume", t.resumeCashSession)
	mux.HandleFunc("POST /cash-session/close", t.closeCashSession)

	mux.HandleFunc("GET /kots", t.listKOTs)
	mux.HandleFunc("GET /kots/{id}", t.getKOT)
	mux.HandleFunc("DELETE /kots/{id}", t.voidKOT)
	mux.HandleFunc("POST /kots/{id}/refund", t.refundLine)

	return mux
}

func (t *Terminal) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Log.Error("response_encode_failed", err, nil)
	}
}

// writeErr maps the error taxonomy onto status codes: validation 400,
// resource conflict 409, anything else a retryable 500.
func (t *Terminal) writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case domain.IsConflict(err):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		t.Log.Error("request_failed", err, nil)
	}
	t.writeJSON(w, status, domain.ErrorResponse{Error: err.Error()})
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
