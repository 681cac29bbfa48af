package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FagneAlmeida/e-turboost.site/internal/catalog"
)

func TestGetProducts(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[{"id":"A","name":"Turbina GT28","price":1200.00}]}`))
	}))
	t.Cleanup(upstream.Close)

	handler := NewCatalogHandler(catalog.NewClient(upstream.URL, upstream.Client()))

	recorder := httptest.NewRecorder()
	handler.GetProducts(recorder, httptest.NewRequest("GET", "/api/v1/products/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var view ProductsView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	require.Len(t, view.Products, 1)
	assert.Equal(t, "A", view.Products[0].ID)
}

func TestSearchProducts_ForwardsFilters(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"products":[]}`))
	}))
	t.Cleanup(upstream.Close)

	handler := NewCatalogHandler(catalog.NewClient(upstream.URL, upstream.Client()))

	recorder := httptest.NewRecorder()
	handler.SearchProducts(recorder, httptest.NewRequest("GET", "/api/v1/products/search?marca=Fiat&modelo=Uno", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, gotQuery, "marca=Fiat")
	assert.Contains(t, gotQuery, "modelo=Uno")
	assert.JSONEq(t, `{"products":[]}`, recorder.Body.String())
}

func TestGetProducts_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	handler := NewCatalogHandler(catalog.NewClient(upstream.URL, upstream.Client()))

	recorder := httptest.NewRecorder()
	handler.GetProducts(recorder, httptest.NewRequest("GET", "/api/v1/products/", nil))

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}
