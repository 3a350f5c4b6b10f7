package netvalue

import (
	"context"
	"log"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue/date"
)

// PriceTypeClose is the only price type the engine stores and serves.
const PriceTypeClose = "close"

// ClosePoint is a single trading-day close returned by a Provider.
type ClosePoint struct {
	Date  date.Date
	Close decimal.Decimal
}

// CachedPrice is one persisted (symbol, date) close with its metadata.
type CachedPrice struct {
	Symbol    string
	Date      string // YYYY-MM-DD
	Close     decimal.Decimal
	PriceType string
	UpdatedAt time.Time
}

// PriceStore persists daily closes. Implemented by the store package.
type PriceStore interface {
	// LoadPrices returns the cached closes of each symbol restricted to r,
	// keyed by YYYY-MM-DD. A symbol with no rows maps to an empty map.
	LoadPrices(symbols []string, r date.Range) (map[string]map[string]decimal.Decimal, error)
	// UpsertPrices writes closes, overwriting rows that already exist.
	UpsertPrices(prices []CachedPrice) error
}

// Provider fetches daily closes from a market-data source.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string
	// FetchDailyCloses returns trading-day closes per symbol over r
	// (both bounds inclusive). Partial results are normal: a symbol may be
	// missing entirely and days may be absent within the range.
	FetchDailyCloses(ctx context.Context, symbols []string, r date.Range) (map[string][]ClosePoint, error)
	// FetchSymbolCloses is the single-symbol call used to retry a symbol for
	// which the batch returned nothing.
	FetchSymbolCloses(ctx context.Context, symbol string, r date.Range) ([]ClosePoint, error)
}

// PriceService fills the price cache on demand and serves forward-filled
// daily series. Provider failures never escape it: valuation proceeds from
// whatever the cache holds. Store failures do escape, they mean lost data.
type PriceService struct {
	store    PriceStore
	provider Provider
	timeout  time.Duration // per fetch round; zero means no deadline
}

// NewPriceService returns a PriceService fetching through provider with the
// given per-fetch timeout.
func NewPriceService(store PriceStore, provider Provider, timeout time.Duration) *PriceService {
	return &PriceService{store: store, provider: provider, timeout: timeout}
}

// HistoricalSeries returns, for each symbol, one forward-filled point per
// calendar day of r. Days missing from the cache are coalesced into minimal
// date ranges and fetched once in batch; symbols the batch returned nothing
// for are retried one by one. refresh treats the whole range as missing and
// overwrites the cache with whatever the provider returns.
func (s *PriceService) HistoricalSeries(ctx context.Context, symbols []string, r date.Range, refresh bool) (map[string][]SeriesPoint, error) {
	if r.Empty() {
		out := make(map[string][]SeriesPoint, len(symbols))
		for _, sym := range symbols {
			out[sym] = []SeriesPoint{}
		}
		return out, nil
	}

	norm := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		if n := NormalizeSymbol(sym); n != "" {
			norm = append(norm, n)
		}
	}
	if len(norm) == 0 {
		return map[string][]SeriesPoint{}, nil
	}

	cache, err := s.store.LoadPrices(norm, r)
	if err != nil {
		return nil, err
	}

	missing := make(map[string][]date.Range)
	for _, sym := range norm {
		cached := cache[sym]
		if refresh {
			cached = nil
		}
		if ranges := missingRanges(cached, r); len(ranges) > 0 {
			missing[sym] = ranges
		}
	}
	if len(missing) > 0 {
		fetched := s.fetch(ctx, missing)
		if err := s.persist(cache, fetched); err != nil {
			return nil, err
		}
	}

	out := make(map[string][]SeriesPoint, len(norm))
	for _, sym := range norm {
		out[sym] = BuildDailySeries(cache[sym], r)
	}
	return out, nil
}

// PriceOn returns the close of symbol on day d, forward-filled from up to two
// weeks back. It returns nil when the symbol has no data in that window.
func (s *PriceService) PriceOn(ctx context.Context, symbol string, d date.Date) (*decimal.Decimal, error) {
	sym := NormalizeSymbol(symbol)
	if sym == "" {
		return nil, nil
	}
	series, err := s.HistoricalSeries(ctx, []string{sym}, date.NewRange(d.Add(-14), d), false)
	if err != nil {
		return nil, err
	}
	points := series[sym]
	if len(points) == 0 {
		return nil, nil
	}
	return points[len(points)-1].Close, nil
}

// fetch retrieves the missing closes, batch first then per-symbol retries.
// It returns per-symbol closes keyed by YYYY-MM-DD, rounded for persistence.
// Fetch errors are logged and reduce the result, they are never returned.
func (s *PriceService) fetch(ctx context.Context, missing map[string][]date.Range) map[string]map[string]decimal.Decimal {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	symbols := make([]string, 0, len(missing))
	result := make(map[string]map[string]decimal.Decimal, len(missing))
	var span date.Range
	first := true
	for sym, ranges := range missing {
		symbols = append(symbols, sym)
		result[sym] = make(map[string]decimal.Decimal)
		if first {
			span = date.NewRange(ranges[0].From, ranges[len(ranges)-1].To)
			first = false
			continue
		}
		if ranges[0].From.Before(span.From) {
			span.From = ranges[0].From
		}
		if last := ranges[len(ranges)-1].To; last.After(span.To) {
			span.To = last
		}
	}
	slices.Sort(symbols)

	// One batch call covering every symbol's gaps.
	batch, err := s.provider.FetchDailyCloses(ctx, symbols, span)
	if err != nil {
		log.Printf("warning, %s batch fetch %s..%s failed: %v", s.provider.Name(), span.From, span.To, err)
	}
	for _, sym := range symbols {
		for _, p := range batch[sym] {
			result[sym][p.Date.String()] = round2(p.Close)
		}
	}

	// Symbols the batch returned nothing for get one retry per gap.
	for _, sym := range symbols {
		if len(result[sym]) > 0 {
			continue
		}
		for _, gap := range missing[sym] {
			points, err := s.provider.FetchSymbolCloses(ctx, sym, gap)
			if err != nil {
				log.Printf("warning, %s fetch %s %s..%s failed: %v", s.provider.Name(), sym, gap.From, gap.To, err)
				continue
			}
			for _, p := range points {
				result[sym][p.Date.String()] = round2(p.Close)
			}
		}
	}
	return result
}

// persist merges fetched closes into the in-memory cache and upserts them.
func (s *PriceService) persist(cache map[string]map[string]decimal.Decimal, fetched map[string]map[string]decimal.Decimal) error {
	now := time.Now().UTC()
	var rows []CachedPrice
	for sym, byDate := range fetched {
		if len(byDate) == 0 {
			continue
		}
		dst := cache[sym]
		if dst == nil {
			dst = make(map[string]decimal.Decimal)
			cache[sym] = dst
		}
		for day, close := range byDate {
			dst[day] = close
			rows = append(rows, CachedPrice{
				Symbol:    sym,
				Date:      day,
				Close:     close,
				PriceType: PriceTypeClose,
				UpdatedAt: now,
			})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return s.store.UpsertPrices(rows)
}
