package handlers

import (
	"net/http"

	"pos-terminal/internal/domain"
)

func (t *Terminal) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := t.Menu.List(r.Context())
	if err != nil {
		t.writeErr(w, err)
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	t.writeJSON(w, http.StatusOK, items)
}

func (t *Terminal) listInventory(w http.ResponseWriter, r *http.Request) {
	records, err := t.Inventory.List(r.Context())
	if err != nil {
		t.writeErr(w, err)
		return
	}
	if records == nil {
		records = []domain.InventoryRecord{}
	}
	t.writeJSON(w, http.StatusOK, records)
}
