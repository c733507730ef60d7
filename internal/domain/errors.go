package domain

import "errors"

// Error taxonomy. Validation errors reject input with state unchanged;
// conflict errors name a resource that blocks settlement before any
// mutation; transient errors are retryable backing-store failures.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrLineOutOfRange     = errors.New("no such order line")
	ErrNoPaymentMethod    = errors.New("payment method is required")
	ErrBadSplitAmount     = errors.New("split cash portion must be above zero and below the total")
	ErrUnderTender        = errors.New("tendered cash is below the amount due")
	ErrInexactTender      = errors.New("employee must pay the cash due exactly")
	ErrPatronBound        = errors.New("a patron is already bound to this order")
	ErrNotClockedIn       = errors.New("employee must be clocked in to use meal credits")
	ErrLoyaltyClockedIn   = errors.New("clocked-in employees cannot use the loyalty program")
	ErrOutOfStock         = errors.New("item is out of stock")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrItemUnknown        = errors.New("item not found in inventory")
	ErrNoOpenCashSession  = errors.New("no open cash session; start one before accepting cash")
	ErrCashSessionPaused  = errors.New("cash session is paused; ask the manager to resume it")
	ErrSessionAlreadyOpen = errors.New("a cash session is already open")
	ErrStoredNotFound     = errors.New("stored order not found")
	ErrStoredExpired      = errors.New("stored order has expired")
	ErrStoredCompleted    = errors.New("stored order was already completed")
	ErrKOTNotFound        = errors.New("sale record not found")
	ErrLoyaltyConflict    = errors.New("loyalty balance changed underneath this sale")
	ErrCreditsConflict    = errors.New("meal credit balance changed underneath this sale")
)

// IsValidation reports whether err is a synchronous input rejection.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrEmptyCart, ErrInvalidQuantity, ErrLineOutOfRange,
		ErrNoPaymentMethod, ErrBadSplitAmount, ErrUnderTender, ErrInexactTender,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err names a conflicting resource. The caller
// may retry after the conflict is resolved by an operator.
func IsConflict(err error) bool {
	for _, v := range []error{
		ErrPatronBound, ErrNotClockedIn, ErrLoyaltyClockedIn,
		ErrOutOfStock, ErrInsufficientStock, ErrItemUnknown,
		ErrNoOpenCashSession, ErrCashSessionPaused, ErrSessionAlreadyOpen,
		ErrStoredNotFound, ErrStoredExpired, ErrStoredCompleted, ErrKOTNotFound,
		ErrLoyaltyConflict, ErrCreditsConflict,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
