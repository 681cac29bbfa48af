// Package catalog is the read-side client for the product API. It keeps an
// id index of the last fetched product list so the checkout summary can
// re-resolve unit prices without a request per line.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
)

type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	sfg     singleflight.Group // Collapses concurrent refreshes into one fetch

	mu   sync.RWMutex
	byID map[string]domain.Product
}

func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		timeout: 10 * time.Second,
		byID:    make(map[string]domain.Product),
	}
}

// productsResponse mirrors the API's {"products": [...]} envelope.
type productsResponse struct {
	Products []domain.Product `json:"products"`
}

// Products fetches the full catalog and refreshes the id index.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		products, err := c.fetch(ctx, "/products")
		if err != nil {
			return nil, err
		}
		c.index(products)
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

// Search returns the subset matching the vehicle filters. Empty filters are
// omitted from the query.
func (c *Client) Search(ctx context.Context, marca, modelo, ano string) ([]domain.Product, error) {
	q := url.Values{}
	if marca != "" {
		q.Set("marca", marca)
	}
	if modelo != "" {
		q.Set("modelo", modelo)
	}
	if ano != "" {
		q.Set("ano", ano)
	}
	path := "/products/search"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return c.fetch(ctx, path)
}

// Lookup resolves a product from the last fetched list. ok is false when the
// product is unknown, for instance removed from the catalog after it was
// added to a cart.
func (c *Client) Lookup(productID string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[productID]
	return p, ok
}

func (c *Client) fetch(ctx context.Context, path string) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	var payload productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return payload.Products, nil
}

func (c *Client) index(products []domain.Product) {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	c.mu.Lock()
	c.byID = byID
	c.mu.Unlock()
}
