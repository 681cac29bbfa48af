package address

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookupServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ws/01001000/json/":
			w.Write([]byte(`{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`))
		default:
			w.Write([]byte(`{"erro": true}`))
		}
	}))
}

func TestResolve_KnownPostalCode(t *testing.T) {
	srv := newLookupServer(t, nil)
	defer srv.Close()

	resolver := NewResolver(srv.URL, srv.Client())
	addr, err := resolver.Resolve(context.Background(), "01001-000")

	require.NoError(t, err)
	assert.Equal(t, "01001000", addr.PostalCode)
	assert.Equal(t, "Praça da Sé", addr.Street)
	assert.Equal(t, "Sé", addr.Neighborhood)
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
}

func TestResolve_UnknownPostalCodeIsTaggedNotFound(t *testing.T) {
	srv := newLookupServer(t, nil)
	defer srv.Close()

	resolver := NewResolver(srv.URL, srv.Client())
	addr, err := resolver.Resolve(context.Background(), "00000000")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, addr)
}

func TestResolve_ShortInputMakesNoRequest(t *testing.T) {
	var requests atomic.Int32
	srv := newLookupServer(t, &requests)
	defer srv.Close()

	resolver := NewResolver(srv.URL, srv.Client())

	for _, input := range []string{"", "0100", "010010001", "abc"} {
		_, err := resolver.Resolve(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidPostalCode, "input %q", input)
	}
	assert.Equal(t, int32(0), requests.Load())
}

func TestResolve_ServerErrorDoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	resolver := NewResolver(srv.URL, srv.Client())
	_, err := resolver.Resolve(context.Background(), "01001000")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStripNonDigits(t *testing.T) {
	assert.Equal(t, "01001000", StripNonDigits("01001-000"))
	assert.Equal(t, "12345678", StripNonDigits(" 12.345-678 "))
	assert.Equal(t, "", StripNonDigits("abc"))
}
