package http

import (
	"net/http"

	"github.com/FagneAlmeida/e-turboost.site/internal/catalog"
	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

// CatalogHandler serves the product list the storefront pages render. It
// also keeps the catalog client's price index warm for the checkout summary.
type CatalogHandler struct {
	catalog *catalog.Client
}

func NewCatalogHandler(catalogClient *catalog.Client) *CatalogHandler {
	return &CatalogHandler{catalog: catalogClient}
}

type ProductsView struct {
	Products []domain.Product `json:"products"`
}

func (h *CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, ProductsView{Products: products})
}

func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.catalog.Search(r.Context(), q.Get("marca"), q.Get("modelo"), q.Get("ano"))
	if err != nil {
		respondError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, ProductsView{Products: products})
}
