// Package address resolves Brazilian postal codes (CEP) to canonical
// addresses through a ViaCEP-compatible lookup service.
package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

const postalCodeLength = 8

var (
	ErrInvalidPostalCode = errors.New("postal code must have exactly 8 digits")
	ErrNotFound          = errors.New("postal code not found")
)

type Resolver struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

func NewResolver(baseURL string, client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: 5 * time.Second,
	}
}

// viaCEPResponse mirrors the lookup service's payload; a not-found postal
// code comes back as HTTP 200 with {"erro": true}.
type viaCEPResponse struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

// Resolve fetches the canonical address for a postal code. Input that does
// not normalize to exactly 8 digits is rejected locally, before any network
// call. Failures are tagged so the caller can leave its address fields
// untouched; there is no automatic retry.
func (r *Resolver) Resolve(ctx context.Context, postalCode string) (domain.Address, error) {
	cep := StripNonDigits(postalCode)
	if len(cep) != postalCodeLength {
		return domain.Address{}, ErrInvalidPostalCode
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/ws/%s/json/", r.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Address{}, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.Address{}, fmt.Errorf("postal code lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Address{}, fmt.Errorf("postal code lookup: unexpected status %d", resp.StatusCode)
	}

	var payload viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Address{}, fmt.Errorf("decode lookup response: %w", err)
	}
	if payload.Erro {
		return domain.Address{}, ErrNotFound
	}

	return domain.Address{
		PostalCode:   cep,
		Street:       payload.Logradouro,
		Neighborhood: payload.Bairro,
		City:         payload.Localidade,
		State:        payload.UF,
	}, nil
}

// StripNonDigits drops everything but 0-9, so "01001-000" and "01001000"
// normalize to the same code.
func StripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
