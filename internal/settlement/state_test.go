package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/internal/domain"
)

func TestCheckoutFlow(t *testing.T) {
	co := NewCheckout()
	assert.Equal(t, StateIdle, co.State())

	require.NoError(t, co.Begin(2))
	assert.Equal(t, StateChoosingType, co.State())

	co.ChooseOrderType()
	assert.Equal(t, StateChoosingPatron, co.State())

	co.ChoosePatron()
	assert.Equal(t, StateChoosingPayment, co.State())

	co.beginProcessing()
	co.settle()
	assert.Equal(t, StateSettled, co.State())
}

func TestCheckoutBeginEmptyCart(t *testing.T) {
	co := NewCheckout()
	assert.ErrorIs(t, co.Begin(0), domain.ErrEmptyCart)
	assert.Equal(t, StateIdle, co.State())
}

func TestCheckoutRestartAfterFailure(t *testing.T) {
	co := NewCheckout()
	require.NoError(t, co.Begin(1))
	co.fail()

	require.NoError(t, co.Begin(1))
	assert.Equal(t, StateChoosingType, co.State())
}

func TestCheckoutCancel(t *testing.T) {
	t.Run("before processing", func(t *testing.T) {
		co := NewCheckout()
		require.NoError(t, co.Begin(1))
		co.ChooseOrderType()

		co.Cancel()
		assert.Equal(t, StateIdle, co.State())
	})

	t.Run("ignored while processing", func(t *testing.T) {
		co := NewCheckout()
		require.NoError(t, co.Begin(1))
		co.ChooseOrderType()
		co.ChoosePatron()
		co.beginProcessing()

		co.Cancel()
		assert.Equal(t, StateProcessing, co.State())
	})
}
