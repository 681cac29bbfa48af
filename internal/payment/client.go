// Package payment creates payment preferences: opaque server-side objects
// representing an order ready for payment, referenced by an id handed to the
// provider's redirect flow.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/FagneAlmeida/e-turboost.site/internal/domain"
	"github.com/FagneAlmeida/e-turboost.site/internal/identity"
)

// Preference is the created payment object. Depending on the backend
// iteration the response carries either a preference id plus public key (for
// the embedded wallet widget) or a ready init_point redirect URL; both
// shapes normalize into this struct.
type Preference struct {
	PreferenceID string `json:"preferenceId,omitempty"`
	PublicKey    string `json:"publicKey,omitempty"`
	InitPoint    string `json:"init_point,omitempty"`
}

// RedirectTarget is where the customer goes next. Empty when the embedded
// widget flow (preference id + public key) is in use.
func (p *Preference) RedirectTarget() string {
	return p.InitPoint
}

type Client struct {
	baseURL string
	client  *http.Client
	tokens  identity.TokenSource
	timeout time.Duration
}

func NewClient(baseURL string, client *http.Client, tokens identity.TokenSource) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tokens:  tokens,
		timeout: 10 * time.Second,
	}
}

// CreatePreference posts the assembled order. The idempotency key makes a
// retried submission land on the same preference instead of a duplicate
// order.
func (c *Client) CreatePreference(ctx context.Context, order domain.OrderPayload, idempotencyKey string) (*Preference, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/create_payment", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("get bearer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create payment preference: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("create payment preference: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("create payment preference: unexpected status %d", resp.StatusCode)
	}

	var pref Preference
	if err := json.NewDecoder(resp.Body).Decode(&pref); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if pref.PreferenceID == "" && pref.InitPoint == "" {
		return nil, fmt.Errorf("payment response carries neither a preference id nor a redirect")
	}
	return &pref, nil
}
