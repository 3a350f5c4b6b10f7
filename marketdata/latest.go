package marketdata

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/hmoreau/netvalue"
)

// Quote cache defaults, overridable through the configuration.
const (
	DefaultQuoteTTL     = 120 * time.Second
	DefaultFetchTimeout = 10 * time.Second
)

// QuoteFetcher serves one live quote per call. All providers implement it.
type QuoteFetcher interface {
	LatestQuote(ctx context.Context, symbol string) (netvalue.Quote, error)
}

// QuoteCache caches live quotes for a TTL and shields callers from fetcher
// failures: a symbol that cannot be fetched comes back with nil prices and is
// retried on the next call. It implements netvalue.QuoteSource.
type QuoteCache struct {
	fetcher QuoteFetcher
	ttl     time.Duration
	timeout time.Duration

	mu      sync.Mutex
	quotes  map[string]netvalue.Quote
	fetched time.Time
	now     func() time.Time
}

// NewQuoteCache wraps fetcher with a TTL cache. Non-positive durations fall
// back to the defaults.
func NewQuoteCache(fetcher QuoteFetcher, ttl, timeout time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &QuoteCache{fetcher: fetcher, ttl: ttl, timeout: timeout, now: time.Now}
}

// Quotes returns one quote per requested symbol. Cached entries younger than
// the TTL are served as is, the rest are fetched within one timeout budget.
func (c *QuoteCache) Quotes(ctx context.Context, symbols []string) map[string]netvalue.Quote {
	out := make(map[string]netvalue.Quote, len(symbols))
	if len(symbols) == 0 {
		return out
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.quotes == nil || c.now().Sub(c.fetched) >= c.ttl {
		c.quotes = make(map[string]netvalue.Quote)
	}

	var missing []string
	for _, s := range symbols {
		sym := netvalue.NormalizeSymbol(s)
		if sym == "" {
			continue
		}
		if q, ok := c.quotes[sym]; ok {
			out[sym] = q
			continue
		}
		missing = append(missing, sym)
	}
	if len(missing) == 0 {
		return out
	}

	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	hit := false
	for _, sym := range missing {
		q, err := c.fetcher.LatestQuote(fctx, sym)
		if err != nil {
			log.Printf("warning, quote %s: %v", sym, err)
			out[sym] = netvalue.Quote{Symbol: sym, DisplayName: sym}
			continue
		}
		q.Symbol = sym
		if q.DisplayName == "" {
			q.DisplayName = sym
		}
		c.quotes[sym] = q
		out[sym] = q
		hit = true
	}
	if hit {
		c.fetched = c.now()
	}
	return out
}
