package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/date"
)

// stubBases holds the base price of well-known symbols. Anything else hashes
// to a base between 50 and 250.
var stubBases = map[string]float64{
	"AAPL":  185.50,
	"GOOGL": 142.75,
	"MSFT":  378.25,
	"AMZN":  178.50,
	"TSLA":  248.75,
	"NVDA":  485.25,
	"META":  505.50,
	"SPY":   485.25,
	"QQQ":   418.75,
	"VTI":   252.30,
}

// Stub is a deterministic offline source for demos and tests. Closes exist on
// weekdays only and drift within 1% of the symbol's base price, the same
// value for the same symbol and day on every call.
type Stub struct{}

// NewStub returns the offline provider.
func NewStub() Stub { return Stub{} }

func (Stub) Name() string { return "stub" }

func stubBase(symbol string) float64 {
	if base, ok := stubBases[symbol]; ok {
		return base
	}
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 50 + float64(h.Sum32()%20000)/100
}

// stubClose returns the close of symbol on d, or false on weekends.
func stubClose(symbol string, d date.Date) (decimal.Decimal, bool) {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return decimal.Zero, false
	}
	h := fnv.New32a()
	fmt.Fprintf(h, "%s|%s", symbol, d)
	drift := (float64(h.Sum32()%2001) - 1000) / 100000 // within 1% of base
	return decimal.NewFromFloat(stubBase(symbol) * (1 + drift)).Round(2), true
}

func (s Stub) FetchDailyCloses(ctx context.Context, symbols []string, r date.Range) (map[string][]netvalue.ClosePoint, error) {
	out := make(map[string][]netvalue.ClosePoint, len(symbols))
	for _, sym := range symbols {
		points, err := s.FetchSymbolCloses(ctx, sym, r)
		if err != nil {
			continue
		}
		out[sym] = points
	}
	return out, nil
}

func (Stub) FetchSymbolCloses(_ context.Context, symbol string, r date.Range) ([]netvalue.ClosePoint, error) {
	var points []netvalue.ClosePoint
	for d := range r.Days() {
		if close, ok := stubClose(symbol, d); ok {
			points = append(points, netvalue.ClosePoint{Date: d, Close: close})
		}
	}
	return points, nil
}

// LatestQuote serves the most recent weekday close as the live price and the
// weekday before as the previous close.
func (Stub) LatestQuote(_ context.Context, symbol string) (netvalue.Quote, error) {
	q := netvalue.Quote{Symbol: symbol, DisplayName: symbol}
	var found []decimal.Decimal
	// Any 7 consecutive days hold at least 5 weekdays.
	for d, i := date.Today(), 0; len(found) < 2 && i < 7; d, i = d.Add(-1), i+1 {
		if close, ok := stubClose(symbol, d); ok {
			found = append(found, close)
		}
	}
	q.Last, q.PrevClose = &found[0], &found[1]
	return q, nil
}
