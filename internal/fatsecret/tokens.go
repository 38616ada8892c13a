// Package fatsecret talks to the FatSecret Platform API: it caches the
// client-credentials bearer token and proxies food and recipe searches.
package fatsecret

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hammamikhairi/fatfit/internal/domain"
	"github.com/hammamikhairi/fatfit/internal/logger"
)

// DefaultExpiryMargin is subtracted from the provider's stated lifetime so a
// token is never handed out in its last minute.
const DefaultExpiryMargin = 60 * time.Second

// Compile-time interface check.
var _ domain.TokenSource = (*TokenCache)(nil)

// Grant is the result of one client-credentials exchange.
type Grant struct {
	AccessToken string
	ExpiresIn   time.Duration
}

// Exchanger performs a client-credentials exchange.
type Exchanger interface {
	Exchange(ctx context.Context) (Grant, error)
}

// ExchangerFunc adapts a function to Exchanger.
type ExchangerFunc func(ctx context.Context) (Grant, error)

// Exchange calls f.
func (f ExchangerFunc) Exchange(ctx context.Context) (Grant, error) { return f(ctx) }

// TokenOption configures a TokenCache.
type TokenOption func(*TokenCache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCache) { c.now = now }
}

// WithExpiryMargin overrides DefaultExpiryMargin.
func WithExpiryMargin(d time.Duration) TokenOption {
	return func(c *TokenCache) { c.margin = d }
}

// TokenCache hands out a cached bearer token and refreshes it lazily when it
// is missing or expired. Check, exchange and store happen while holding a
// one-slot semaphore, so concurrent callers of an expired cache trigger a
// single exchange. Waiting for the slot respects the caller's context.
type TokenCache struct {
	exchanger Exchanger
	log       *logger.Logger
	now       func() time.Time
	margin    time.Duration

	sem       chan struct{} // guards token and expiresAt
	token     string
	expiresAt time.Time
	exchanges atomic.Int32
}

// NewTokenCache creates an empty cache backed by the given exchanger.
func NewTokenCache(exchanger Exchanger, log *logger.Logger, opts ...TokenOption) *TokenCache {
	c := &TokenCache{
		exchanger: exchanger,
		log:       log,
		now:       time.Now,
		margin:    DefaultExpiryMargin,
		sem:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns a valid bearer token, exchanging credentials only when the
// cached one is absent or expired. On failure the cached state is left as
// it was and the *domain.ProviderError is returned to the caller.
//
// The exchange itself is detached from ctx cancellation: a caller that gives
// up still lets an in-flight exchange complete and populate the cache. Every
// caller, including one queued behind that exchange, returns ctx.Err() once
// its own context is done.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-c.sem }()

	if c.token == "" || !c.now().Before(c.expiresAt) {
		if err := c.refresh(ctx); err != nil {
			return "", err
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return c.token, nil
}

// refresh runs one exchange. The caller holds the semaphore.
func (c *TokenCache) refresh(ctx context.Context) error {
	c.log.Debug("fatsecret: token missing or expired, exchanging credentials")
	grant, err := c.exchanger.Exchange(context.WithoutCancel(ctx))
	c.exchanges.Add(1)
	if err != nil {
		c.log.Error("fatsecret: token exchange failed: %v", err)
		return err
	}

	c.token = grant.AccessToken
	c.expiresAt = c.now().Add(grant.ExpiresIn - c.margin)
	c.log.Info("fatsecret: new token cached, valid until %s", c.expiresAt.Format(time.RFC3339))
	return nil
}

// Exchanges returns how many exchanges have been attempted.
func (c *TokenCache) Exchanges() int {
	return int(c.exchanges.Load())
}
