// Package shipping quotes carrier options for a destination and cart and
// tracks the loading/selection state of the checkout page.
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
	"github.com/FagneAlmeida/e-turboost.site/pkg/circuitbreaker"
)

// Quoter calls the shipping-rate endpoint. Calls run through a circuit
// breaker so a struggling carrier API stops being hammered while the rest of
// the checkout stays usable.
type Quoter struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]domain.ShippingOption]
}

func NewQuoter(baseURL string, client *http.Client) *Quoter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Quoter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: 10 * time.Second,
		breaker: circuitbreaker.New[[]domain.ShippingOption]("shipping-quote"),
	}
}

type quoteItem struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"quantity"`
}

type quoteRequest struct {
	PostalCode string      `json:"postalCode"`
	Items      []quoteItem `json:"items"`
}

// Quote posts destination and cart contents and returns the carrier options.
func (q *Quoter) Quote(ctx context.Context, postalCode string, lines []domain.CartLine) ([]domain.ShippingOption, error) {
	body := quoteRequest{PostalCode: postalCode, Items: make([]quoteItem, 0, len(lines))}
	for _, line := range lines {
		body.Items = append(body.Items, quoteItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal quote request: %w", err)
	}

	return q.breaker.Execute(func() ([]domain.ShippingOption, error) {
		reqCtx, cancel := context.WithTimeout(ctx, q.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, q.baseURL+"/shipping", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build quote request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := q.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("shipping quote: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			var apiErr struct {
				Error string `json:"error"`
			}
			if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
				return nil, fmt.Errorf("shipping quote: %s", apiErr.Error)
			}
			return nil, fmt.Errorf("shipping quote: unexpected status %d", resp.StatusCode)
		}

		var options []domain.ShippingOption
		if err := json.NewDecoder(resp.Body).Decode(&options); err != nil {
			return nil, fmt.Errorf("decode quote response: %w", err)
		}
		return options, nil
	})
}
