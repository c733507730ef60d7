package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/internal/cart"
	"pos-terminal/internal/common/logger"
	"pos-terminal/internal/domain"
)

func testTerminal() *Terminal {
	return &Terminal{
		Cart: cart.New(nil, 20),
		Log:  logger.New("handlers-test"),
	}
}

func TestViewCartEmpty(t *testing.T) {
	term := testTerminal()
	rec := httptest.NewRecorder()

	term.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view domain.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Empty(t, view.Lines)
	assert.Equal(t, 0.0, view.Total)
	assert.Equal(t, domain.OrderDineIn, view.OrderType)
}

func TestClearCart(t *testing.T) {
	term := testTerminal()
	rec := httptest.NewRecorder()

	term.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/cart", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	term := testTerminal()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.ErrInvalidQuantity, http.StatusBadRequest},
		{"under tender", domain.ErrUnderTender, http.StatusBadRequest},
		{"loyalty while clocked in", domain.ErrLoyaltyClockedIn, http.StatusConflict},
		{"out of stock", domain.ErrOutOfStock, http.StatusConflict},
		{"stored order expired", domain.ErrStoredExpired, http.StatusConflict},
		{"session already open", domain.ErrSessionAlreadyOpen, http.StatusConflict},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			term.writeErr(rec, tt.err)

			assert.Equal(t, tt.want, rec.Code)
			var resp domain.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestSetQuantityBadIndex(t *testing.T) {
	term := testTerminal()
	rec := httptest.NewRecorder()

	req := httptest.NewRequest(http.MethodPut, "/cart/items/notanumber", nil)
	term.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchPatronsRequiresTerm(t *testing.T) {
	term := testTerminal()
	rec := httptest.NewRecorder()

	term.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patrons", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
