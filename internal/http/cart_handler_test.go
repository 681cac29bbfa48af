package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FagneAlmeida/e-turboost.site/internal/cart"
	"github.com/FagneAlmeida/e-turboost.site/internal/cartstore"
	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

func newTestCartHandler() (*CartHandler, *cart.Engine) {
	engine := cart.NewEngine(cartstore.NewMemory())
	return NewCartHandler(engine), engine
}

func TestAddItem_Success(t *testing.T) {
	handler, _ := newTestCartHandler()

	body, _ := json.Marshal(AddItemRequestDTO{
		ProductID: "A",
		Name:      "Turbina GT28",
		Price:     10.00,
		Quantity:  2,
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body))

	handler.AddItem(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var view CartView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 2, view.Totals.ItemCount)
	assert.InDelta(t, 20.00, view.Totals.Subtotal, 0.001)
}

func TestAddItem_InvalidBody(t *testing.T) {
	handler, _ := newTestCartHandler()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader([]byte("{not json")))

	handler.AddItem(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAddItem_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		req  AddItemRequestDTO
		code string
	}{
		{"missing product id", AddItemRequestDTO{Quantity: 1}, "invalid_product_id"},
		{"quantity too large", AddItemRequestDTO{ProductID: "A", Quantity: 100}, "invalid_quantity"},
		{"negative quantity", AddItemRequestDTO{ProductID: "A", Quantity: -1}, "invalid_quantity"},
		{"negative price", AddItemRequestDTO{ProductID: "A", Price: -1, Quantity: 1}, "invalid_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, engine := newTestCartHandler()

			body, _ := json.Marshal(tt.req)
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("POST", "/api/v1/cart/items", bytes.NewReader(body))

			handler.AddItem(recorder, request)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.True(t, engine.IsEmpty())
		})
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	handler, engine := newTestCartHandler()
	require.NoError(t, engine.AddItem(context.Background(), domain.CartLine{ProductID: "A", Quantity: 2}))

	body, _ := json.Marshal(UpdateQuantityRequestDTO{Quantity: 0})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/api/v1/cart/items/A", bytes.NewReader(body))
	request = withURLParam(request, "product_id", "A")

	handler.UpdateQuantity(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, engine.IsEmpty())
}

func TestRemoveItem(t *testing.T) {
	handler, engine := newTestCartHandler()
	require.NoError(t, engine.AddItem(context.Background(), domain.CartLine{ProductID: "A", Quantity: 1}))
	require.NoError(t, engine.AddItem(context.Background(), domain.CartLine{ProductID: "B", Quantity: 1}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("DELETE", "/api/v1/cart/items/A", nil)
	request = withURLParam(request, "product_id", "A")

	handler.RemoveItem(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var view CartView
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "B", view.Items[0].ProductID)
}

func TestGetCart_EmptyCartHasEmptyItemsArray(t *testing.T) {
	handler, _ := newTestCartHandler()

	recorder := httptest.NewRecorder()
	handler.GetCart(recorder, httptest.NewRequest("GET", "/api/v1/cart/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"items":[],"totals":{"itemCount":0,"subtotal":0}}`, recorder.Body.String())
}

func TestClearCart(t *testing.T) {
	handler, engine := newTestCartHandler()
	require.NoError(t, engine.AddItem(context.Background(), domain.CartLine{ProductID: "A", Quantity: 3}))

	recorder := httptest.NewRecorder()
	handler.ClearCart(recorder, httptest.NewRequest("DELETE", "/api/v1/cart/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, engine.IsEmpty())
}
