// Package identity supplies bearer tokens for authenticated storefront
// calls. The identity provider itself is external; only the token contract
// lives here.
package identity

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenSource yields a bearer token valid for the next request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Static is a fixed token, useful for tests and service-to-service setups.
type Static string

func (s Static) Token(context.Context) (string, error) {
	return string(s), nil
}

// RefreshFunc fetches a fresh token and its expiry from the provider.
type RefreshFunc func(ctx context.Context) (token string, expiry time.Time, err error)

// Caching refreshes short-lived tokens ahead of expiry and serves the cached
// value otherwise. Safe for concurrent use.
type Caching struct {
	refresh RefreshFunc
	leeway  time.Duration
	now     func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewCaching(refresh RefreshFunc) *Caching {
	return &Caching{
		refresh: refresh,
		leeway:  30 * time.Second,
		now:     time.Now,
	}
}

func (c *Caching) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry.Add(-c.leeway)) {
		return c.token, nil
	}

	token, expiry, err := c.refresh(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	c.token = token
	c.expiry = expiry
	return token, nil
}
