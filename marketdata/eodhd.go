package marketdata

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/date"
)

// EODHD serves daily closes from eodhd.com. Historical calls go through the
// daily disk cache. The free tier limits history to one year per request.
type EODHD struct {
	apiKey string
	eod    *http.Client
}

// NewEODHD returns an EODHD provider using the given API key.
func NewEODHD(apiKey string) *EODHD { return &EODHD{apiKey: apiKey, eod: daily()} }

func (e *EODHD) Name() string { return "eodhd" }

// FetchDailyCloses fetches each symbol in turn, skipping failures.
func (e *EODHD) FetchDailyCloses(ctx context.Context, symbols []string, r date.Range) (map[string][]netvalue.ClosePoint, error) {
	out := make(map[string][]netvalue.ClosePoint, len(symbols))
	for _, sym := range symbols {
		points, err := e.FetchSymbolCloses(ctx, sym, r)
		if err != nil {
			log.Printf("warning, eodhd %s: %v", sym, err)
			continue
		}
		out[sym] = points
	}
	return out, nil
}

// FetchSymbolCloses returns the split-adjusted closes of symbol over r.
// Both bounds are included in the response.
func (e *EODHD) FetchSymbolCloses(ctx context.Context, symbol string, r date.Range) ([]netvalue.ClosePoint, error) {
	addr := fmt.Sprintf("https://eodhd.com/api/eod/%s?fmt=json&api_token=%s&from=%s&to=%s",
		url.PathEscape(symbol), e.apiKey, r.From, r.To)

	type info struct {
		Date  date.Date `json:"date"`
		Close float64   `json:"adjusted_close"`
	}
	content := make([]info, 0)
	if err := jwget(ctx, e.eod, addr, &content); err != nil {
		return nil, err
	}
	points := make([]netvalue.ClosePoint, 0, len(content))
	for _, in := range content {
		points = append(points, netvalue.ClosePoint{Date: in.Date, Close: decimal.NewFromFloat(in.Close)})
	}
	return points, nil
}

// LatestQuote reads the live price from the real-time endpoint. Outside
// trading hours the endpoint serves "NA" strings, which surface as errors.
func (e *EODHD) LatestQuote(ctx context.Context, symbol string) (netvalue.Quote, error) {
	q := netvalue.Quote{Symbol: symbol, DisplayName: symbol}
	addr := fmt.Sprintf("https://eodhd.com/api/real-time/%s?fmt=json&api_token=%s", url.PathEscape(symbol), e.apiKey)

	var jobj any
	if err := jwget(ctx, new(http.Client), addr, &jobj); err != nil {
		return q, fmt.Errorf("error in wget %q: %w", symbol, err)
	}
	last, err := jfloat(jobj, "$.close")
	if err != nil {
		return q, err
	}
	lastD := decimal.NewFromFloat(last)
	q.Last = &lastD
	if prev, err := jfloat(jobj, "$.previousClose"); err == nil {
		prevD := decimal.NewFromFloat(prev)
		q.PrevClose = &prevD
	}
	return q, nil
}
