package checkout

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrNotReady          = errors.New("checkout is not ready for submission")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)
