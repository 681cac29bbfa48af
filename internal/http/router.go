package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the storefront API surface.
func NewRouter(cartHandler *CartHandler, catalogHandler *CatalogHandler, checkoutHandler *CheckoutHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.GetProducts)
			r.Get("/search", catalogHandler.SearchProducts)
		})

		r.Get("/address/{cep}", checkoutHandler.ResolveAddress)

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/session", checkoutHandler.GetSession)
			r.Post("/hydrate", checkoutHandler.Hydrate)
			r.Put("/customer", checkoutHandler.SetCustomer)
			r.Put("/address", checkoutHandler.SetAddress)
			r.Post("/shipping/refresh", checkoutHandler.RefreshShipping)
			r.Post("/shipping/select", checkoutHandler.SelectShipping)
			r.Post("/submit", checkoutHandler.Submit)
			r.Post("/dismiss-error", checkoutHandler.DismissError)
		})
	})

	return r
}
