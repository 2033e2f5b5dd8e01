// Package rates caches per-currency conversion factors against a fixed USD
// base and derives direct, inverted and cross pair rates from the cached
// table. Entries are refreshed lazily from an external quote source once
// they exceed the configured time-to-live.
package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// BaseCurrency is the fixed base of the cached table. Its rate is always
// 1.0 and never expires.
const BaseCurrency = "USD"

// DefaultTTL is the staleness window after which a cached rate must be
// refreshed before use.
const DefaultTTL = 15 * time.Minute

var (
	ErrInvalidCurrency = errors.New("rates: invalid currency")
	ErrInvalidPair     = errors.New("rates: invalid pair")
	ErrRateUnavailable = errors.New("rates: rate unavailable")
)

// Quote is one row returned by the external rate source.
type Quote struct {
	// Rate is units of the quoted currency per one USD.
	Rate float64

	// Date and Time are the source's own quote date/time strings, kept raw.
	Date string
	Time string
}

// QuoteSource fetches the latest quote for a 6-letter pair token. May fail
// or time out; implementations must honor the context.
type QuoteSource interface {
	FetchQuote(ctx context.Context, pair string) (Quote, error)
}

// entry holds one currency's cached conversion factor. The entry mutex
// serializes refreshes per currency: concurrent Rate calls for the same
// currency issue at most one fetch and never observe a half-written entry.
type entry struct {
	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
	quoteDate string
	quoteTime string
	ok        bool
}

// Cache is the shared rate table. Safe for concurrent use. Entries are
// created lazily on first request and never evicted; the currency universe
// is small and fixed.
type Cache struct {
	source QuoteSource
	ttl    time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// NewCache creates a cache backed by source. A ttl of zero selects
// DefaultTTL. The base currency is seeded at 1.0 with a far-future
// freshness timestamp so it never triggers a fetch and never counts as the
// staler leg of a pair.
func NewCache(source QuoteSource, ttl time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		source:  source,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]*entry),
	}
	c.entries[BaseCurrency] = &entry{
		rate:      1.0,
		fetchedAt: time.Now().UTC().AddDate(10, 0, 0),
		ok:        true,
	}
	return c
}

// Rate returns ccy's conversion factor (units of ccy per one USD),
// refreshing it from the source if absent or older than the TTL. When a
// refresh fails but a previous value exists, the stale value is returned
// rather than an error.
func (c *Cache) Rate(ctx context.Context, ccy string) (float64, error) {
	ccy = strings.ToUpper(ccy)
	if !ValidCurrency(ccy) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCurrency, ccy)
	}

	e := c.entry(ccy)
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ok && time.Since(e.fetchedAt) <= c.ttl {
		return e.rate, nil
	}

	quote, err := c.source.FetchQuote(ctx, BaseCurrency+ccy)
	if err != nil {
		if e.ok {
			c.logger.Warn("rate refresh failed, using stale value",
				"currency", ccy, "fetchedAt", e.fetchedAt, "error", err)
			return e.rate, nil
		}
		return 0, fmt.Errorf("%w: %s: %v", ErrRateUnavailable, ccy, err)
	}

	e.rate = quote.Rate
	e.fetchedAt = time.Now().UTC()
	e.quoteDate = quote.Date
	e.quoteTime = quote.Time
	e.ok = true

	c.logger.Debug("rate refreshed", "currency", ccy, "rate", e.rate,
		"quoteDate", e.quoteDate, "quoteTime", e.quoteTime)
	return e.rate, nil
}

// Spot returns the spot rate for a 6-letter pair: units of the second
// currency per one unit of the first. Both legs are refreshed independently
// as needed. Because every rate is relative to the same base, inverting the
// pair yields the reciprocal and any common-leg pairs satisfy the
// cross-rate identity.
func (c *Cache) Spot(ctx context.Context, pair string) (float64, error) {
	if !ValidPair(pair) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPair, pair)
	}

	first, err := c.Rate(ctx, pair[:3])
	if err != nil {
		return 0, err
	}
	second, err := c.Rate(ctx, pair[3:])
	if err != nil {
		return 0, err
	}
	return second / first, nil
}

// Timestamp returns the staler of the two legs' freshness timestamps
// without triggering a fetch. ok is false for malformed pairs and for
// pairs with a leg that was never fetched.
func (c *Cache) Timestamp(pair string) (time.Time, bool) {
	if !ValidPair(pair) {
		return time.Time{}, false
	}

	stalest := time.Time{}
	for _, ccy := range []string{strings.ToUpper(pair[:3]), strings.ToUpper(pair[3:])} {
		c.mu.Lock()
		e := c.entries[ccy]
		c.mu.Unlock()
		if e == nil {
			return time.Time{}, false
		}

		e.mu.Lock()
		ok, fetchedAt := e.ok, e.fetchedAt
		e.mu.Unlock()
		if !ok {
			return time.Time{}, false
		}
		if stalest.IsZero() || fetchedAt.Before(stalest) {
			stalest = fetchedAt
		}
	}
	return stalest, true
}

// entry returns the cached entry for ccy, creating it if missing.
func (c *Cache) entry(ccy string) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[ccy]
	if !ok {
		e = &entry{}
		c.entries[ccy] = e
	}
	return e
}
