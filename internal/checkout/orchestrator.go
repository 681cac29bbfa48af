// Package checkout coordinates the checkout page: cart hydration, customer
// and destination input, shipping selection, and submission to the
// payment-preference endpoint.
package checkout

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FagneAlmeida/e-turboost.site/internal/cart"
	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
	"github.com/FagneAlmeida/e-turboost.site/internal/payment"
	"github.com/FagneAlmeida/e-turboost.site/internal/shipping"
)

// PreferenceCreator is the payment-preference endpoint.
type PreferenceCreator interface {
	CreatePreference(ctx context.Context, order domain.OrderPayload, idempotencyKey string) (*payment.Preference, error)
}

// ProductIndex resolves current catalog data for a product id, so the order
// payload carries live prices instead of possibly stale cart snapshots.
type ProductIndex interface {
	Lookup(productID string) (domain.Product, bool)
}

// Orchestrator drives the checkout status machine. It rebuilds its derived
// view (summary, readiness) from the cart and the shipping selection on
// every input change; nothing derived is stored independently.
type Orchestrator struct {
	cart     *cart.Engine
	products ProductIndex
	shipping *shipping.Engine
	payments PreferenceCreator

	mu         sync.Mutex
	status     domain.CheckoutStatus
	customer   domain.Customer
	address    domain.Address
	hasAddress bool
	submitting bool
	lastErr    string
	pref       *payment.Preference
}

func NewOrchestrator(cartEngine *cart.Engine, products ProductIndex, shippingEngine *shipping.Engine, payments PreferenceCreator) *Orchestrator {
	return &Orchestrator{
		cart:     cartEngine,
		products: products,
		shipping: shippingEngine,
		payments: payments,
		status:   domain.CheckoutStatusHydrating,
	}
}

// Hydrate loads the persisted cart. An empty cart returns ErrEmptyCart: the
// caller redirects away, checkout with zero items is a guard, not a failure
// state.
func (o *Orchestrator) Hydrate(ctx context.Context) error {
	o.cart.Hydrate(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cart.IsEmpty() {
		return ErrEmptyCart
	}
	o.status = domain.CheckoutStatusAwaitingAddress
	return nil
}

func (o *Orchestrator) SetCustomer(c domain.Customer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.customer = c
	o.refreshStatusLocked()
}

// SetAddress records the destination. A valid address forwards the postal
// code to the shipping engine (debounced there) and advances past
// AwaitingAddress; the previous shipping selection is invalidated either
// way.
func (o *Orchestrator) SetAddress(a domain.Address) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.address = a
	o.hasAddress = validateAddress(a) == nil
	if o.hasAddress {
		o.shipping.SetDestination(a.PostalCode, o.cart.Lines())
	}
	o.refreshStatusLocked()
}

// SelectShipping picks one of the quoted options.
func (o *Orchestrator) SelectShipping(index int) error {
	if err := o.shipping.Select(index); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.refreshStatusLocked()
	return nil
}

// refreshStatusLocked recomputes the awaiting/ready position from current
// inputs. It never touches Hydrating, Submitting, Failed or Redirected;
// those move only through their own operations.
func (o *Orchestrator) refreshStatusLocked() {
	switch o.status {
	case domain.CheckoutStatusAwaitingAddress,
		domain.CheckoutStatusAwaitingShippingSelection,
		domain.CheckoutStatusReady:
	default:
		return
	}

	target := domain.CheckoutStatusAwaitingAddress
	if o.hasAddress {
		target = domain.CheckoutStatusAwaitingShippingSelection
		if o.readyLocked() {
			target = domain.CheckoutStatusReady
		}
	}
	if target == o.status {
		return
	}
	if !domain.CanTransitionTo(o.status, target) {
		log.Printf("checkout: refusing transition %s -> %s", o.status, target)
		return
	}
	o.status = target
}

// readyLocked re-checks every submission precondition from live state.
func (o *Orchestrator) readyLocked() bool {
	if o.cart.IsEmpty() {
		return false
	}
	if o.shipping.Selected() == nil {
		return false
	}
	if !o.hasAddress || validateAddress(o.address) != nil {
		return false
	}
	return validateCustomer(o.customer) == nil
}

// Summary rebuilds the order view from the current cart and selection.
// Prices come from the catalog index when the product is still known there;
// lines whose product vanished fall back to the snapshot captured at
// add time.
func (o *Orchestrator) Summary() domain.OrderSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.summaryLocked()
}

func (o *Orchestrator) summaryLocked() domain.OrderSummary {
	summary := domain.OrderSummary{ComputedAt: time.Now()}

	for _, line := range o.cart.Lines() {
		name, unitPrice := line.Name, line.Price
		if o.products != nil {
			if p, ok := o.products.Lookup(line.ProductID); ok {
				name, unitPrice = p.Name, p.Price
			}
		}
		subtotal := unitPrice * float64(line.Quantity)
		summary.Items = append(summary.Items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
		})
		summary.Subtotal += subtotal
	}

	summary.Total = summary.Subtotal
	if selected := o.shipping.Selected(); selected != nil {
		summary.Shipping = selected
		summary.Total += selected.Price
	}
	return summary
}

// Submit creates the payment preference. Only callable from Ready, with all
// preconditions re-checked at call time. At most one submission is in
// flight: a second call while Submitting is a silent no-op that returns
// (nil, nil). On success the persisted cart is cleared before the
// Redirected transition; on failure the pre-submit snapshot is restored and
// the status becomes Failed.
func (o *Orchestrator) Submit(ctx context.Context) (*payment.Preference, error) {
	o.mu.Lock()
	if o.submitting {
		o.mu.Unlock()
		return nil, nil
	}
	if o.status != domain.CheckoutStatusReady || !o.readyLocked() {
		o.mu.Unlock()
		return nil, ErrNotReady
	}
	if !domain.CanTransitionTo(o.status, domain.CheckoutStatusSubmitting) {
		o.mu.Unlock()
		return nil, ErrIllegalTransition
	}

	o.status = domain.CheckoutStatusSubmitting
	o.submitting = true
	snapshot := o.cart.Lines()
	summary := o.summaryLocked()
	order := domain.OrderPayload{
		Customer:        o.customer,
		ShippingAddress: o.address,
		Items:           summary.Items,
		Shipping:        *summary.Shipping,
		Subtotal:        summary.Subtotal,
		Total:           summary.Total,
	}
	o.mu.Unlock()

	pref, err := o.payments.CreatePreference(ctx, order, uuid.NewString())

	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitting = false

	if err != nil {
		// Defensive: restore the snapshot if anything emptied the cart
		// while the request was in flight.
		if o.cart.IsEmpty() {
			o.cart.Restore(ctx, snapshot)
		}
		o.status = domain.CheckoutStatusFailed
		o.lastErr = err.Error()
		return nil, err
	}

	// The server accepted the order; only now drop the persisted slot,
	// before handing the caller the redirect target.
	o.cart.Clear(ctx)
	o.status = domain.CheckoutStatusRedirected
	o.pref = pref
	return pref, nil
}

// DismissError acknowledges a failed submission and returns checkout to an
// actionable state.
func (o *Orchestrator) DismissError() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.status != domain.CheckoutStatusFailed {
		return
	}
	o.status = domain.CheckoutStatusReady
	o.lastErr = ""
	o.refreshStatusLocked()
}

func (o *Orchestrator) Status() domain.CheckoutStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) LastError() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Preference returns the created payment object after a successful
// submission, nil before that.
func (o *Orchestrator) Preference() *payment.Preference {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pref
}
