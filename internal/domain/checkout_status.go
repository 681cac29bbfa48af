package domain

type CheckoutStatus string

const (
	CheckoutStatusHydrating                 CheckoutStatus = "HYDRATING"
	CheckoutStatusAwaitingAddress           CheckoutStatus = "AWAITING_ADDRESS"
	CheckoutStatusAwaitingShippingSelection CheckoutStatus = "AWAITING_SHIPPING_SELECTION"
	CheckoutStatusReady                     CheckoutStatus = "READY"
	CheckoutStatusSubmitting                CheckoutStatus = "SUBMITTING"
	CheckoutStatusRedirected                CheckoutStatus = "REDIRECTED"
	CheckoutStatusFailed                    CheckoutStatus = "FAILED"
)

var checkoutTransitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusHydrating:       {CheckoutStatusAwaitingAddress},
	CheckoutStatusAwaitingAddress: {CheckoutStatusAwaitingShippingSelection},
	CheckoutStatusAwaitingShippingSelection: {
		CheckoutStatusAwaitingAddress,
		CheckoutStatusReady,
	},
	CheckoutStatusReady: {
		CheckoutStatusAwaitingAddress,
		CheckoutStatusAwaitingShippingSelection,
		CheckoutStatusSubmitting,
	},
	CheckoutStatusSubmitting: {CheckoutStatusRedirected, CheckoutStatusFailed},
	CheckoutStatusFailed:     {CheckoutStatusReady},
}

func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range checkoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusRedirected
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
