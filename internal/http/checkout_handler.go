package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FagneAlmeida/e-turboost.site/internal/address"
	"github.com/FagneAlmeida/e-turboost.site/internal/checkout"
	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
	"github.com/FagneAlmeida/e-turboost.site/internal/payment"
	"github.com/FagneAlmeida/e-turboost.site/internal/shipping"
)

type CheckoutHandler struct {
	orc      *checkout.Orchestrator
	resolver *address.Resolver
	shipping *shipping.Engine
}

func NewCheckoutHandler(orc *checkout.Orchestrator, resolver *address.Resolver, shippingEngine *shipping.Engine) *CheckoutHandler {
	return &CheckoutHandler{orc: orc, resolver: resolver, shipping: shippingEngine}
}

type SessionView struct {
	Status    domain.CheckoutStatus `json:"status"`
	Summary   domain.OrderSummary   `json:"summary"`
	Shipping  ShippingView          `json:"shipping"`
	LastError string                `json:"lastError,omitempty"`
}

type ShippingView struct {
	State     shipping.State          `json:"state"`
	Options   []domain.ShippingOption `json:"options"`
	Selected  *domain.ShippingOption  `json:"selected,omitempty"`
	LastError string                  `json:"lastError,omitempty"`
}

type SubmitResponseDTO struct {
	Status     domain.CheckoutStatus `json:"status"`
	Preference *payment.Preference   `json:"preference,omitempty"`
	Redirect   string                `json:"redirect,omitempty"`
}

func (h *CheckoutHandler) session() SessionView {
	snap := h.shipping.Snapshot()
	options := snap.Options
	if options == nil {
		options = []domain.ShippingOption{}
	}
	return SessionView{
		Status:  h.orc.Status(),
		Summary: h.orc.Summary(),
		Shipping: ShippingView{
			State:     snap.State,
			Options:   options,
			Selected:  snap.Selected,
			LastError: snap.LastError,
		},
		LastError: h.orc.LastError(),
	}
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.session())
}

// Hydrate loads the persisted cart into the checkout session. An empty cart
// answers 409 so the page can redirect back to the catalog.
func (h *CheckoutHandler) Hydrate(w http.ResponseWriter, r *http.Request) {
	if err := h.orc.Hydrate(r.Context()); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.session())
}

func (h *CheckoutHandler) ResolveAddress(w http.ResponseWriter, r *http.Request) {
	cep := chi.URLParam(r, "cep")

	addr, err := h.resolver.Resolve(r.Context(), cep)
	switch {
	case errors.Is(err, address.ErrInvalidPostalCode):
		respondError(w, http.StatusBadRequest, "invalid_postal_code", err.Error())
	case errors.Is(err, address.ErrNotFound):
		respondError(w, http.StatusNotFound, "postal_code_not_found", err.Error())
	case err != nil:
		respondError(w, http.StatusBadGateway, "lookup_failed", err.Error())
	default:
		respondJSON(w, http.StatusOK, addr)
	}
}

func (h *CheckoutHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.orc.SetCustomer(customer)
	respondJSON(w, http.StatusOK, h.session())
}

func (h *CheckoutHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	var addr domain.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.orc.SetAddress(addr)
	respondJSON(w, http.StatusOK, h.session())
}

// RefreshShipping forces a quote for the current destination and waits for
// it, so the page gets fresh options in one round trip.
func (h *CheckoutHandler) RefreshShipping(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.shipping.Refresh():
	case <-r.Context().Done():
		respondError(w, http.StatusGatewayTimeout, "timeout", "shipping quote did not finish in time")
		return
	}
	respondJSON(w, http.StatusOK, h.session())
}

type SelectShippingRequestDTO struct {
	Index int `json:"index"`
}

func (h *CheckoutHandler) SelectShipping(w http.ResponseWriter, r *http.Request) {
	var req SelectShippingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.orc.SelectShipping(req.Index)
	switch {
	case errors.Is(err, shipping.ErrNoOptions):
		respondError(w, http.StatusConflict, "no_options", err.Error())
	case errors.Is(err, shipping.ErrOptionOutOfRange):
		respondError(w, http.StatusBadRequest, "invalid_option", err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	default:
		respondJSON(w, http.StatusOK, h.session())
	}
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	pref, err := h.orc.Submit(r.Context())
	switch {
	case errors.Is(err, checkout.ErrNotReady):
		respondError(w, http.StatusConflict, "not_ready", err.Error())
	case err != nil:
		log.Printf("checkout submission failed request_id=%s: %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "submission_failed", err.Error())
	case pref == nil:
		// A submission is already in flight; the duplicate is dropped.
		respondJSON(w, http.StatusAccepted, SubmitResponseDTO{Status: h.orc.Status()})
	default:
		respondJSON(w, http.StatusOK, SubmitResponseDTO{
			Status:     h.orc.Status(),
			Preference: pref,
			Redirect:   pref.RedirectTarget(),
		})
	}
}

func (h *CheckoutHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	h.orc.DismissError()
	respondJSON(w, http.StatusOK, h.session())
}
