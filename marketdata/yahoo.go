package marketdata

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue"
	"github.com/hmoreau/netvalue/date"
)

// Yahoo serves daily closes and live quotes from the Yahoo Finance chart API.
// Historical responses are disk-cached until midnight, quotes are not.
type Yahoo struct {
	eod *http.Client
}

// NewYahoo returns a Yahoo Finance provider.
func NewYahoo() *Yahoo { return &Yahoo{eod: daily()} }

func (y *Yahoo) Name() string { return "yahoo" }

// yahooChart is the chart API response, trimmed to what the engine reads.
// Close arrays carry null on holidays, hence any instead of float64.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []any `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

// epochUTC returns the Unix time of midnight UTC on d.
func epochUTC(d date.Date) int64 {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Unix()
}

// FetchDailyCloses fetches each symbol in turn. A failing symbol is logged
// and skipped, it never fails the batch.
func (y *Yahoo) FetchDailyCloses(ctx context.Context, symbols []string, r date.Range) (map[string][]netvalue.ClosePoint, error) {
	out := make(map[string][]netvalue.ClosePoint, len(symbols))
	for _, sym := range symbols {
		points, err := y.FetchSymbolCloses(ctx, sym, r)
		if err != nil {
			log.Printf("warning, yahoo %s: %v", sym, err)
			continue
		}
		out[sym] = points
	}
	return out, nil
}

// FetchSymbolCloses returns the trading-day closes of symbol over r. The
// chart API treats period2 as exclusive, so it is pushed one day past To.
func (y *Yahoo) FetchSymbolCloses(ctx context.Context, symbol string, r date.Range) ([]netvalue.ClosePoint, error) {
	addr := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		url.PathEscape(symbol), epochUTC(r.From), epochUTC(r.To.Add(1)))

	var chart yahooChart
	if err := jwget(ctx, y.eod, addr, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data for %s", symbol)
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	points := make([]netvalue.ClosePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bar, holiday or not yet closed
		}
		d := date.FromTime(time.Unix(ts, 0).UTC())
		if !r.Contains(d) {
			continue
		}
		points = append(points, netvalue.ClosePoint{Date: d, Close: decimal.NewFromFloat(toFloat(closes[i]))})
	}
	return points, nil
}

// LatestQuote reads the live price and previous close from the one-day chart
// metadata. Quotes bypass the disk cache.
func (y *Yahoo) LatestQuote(ctx context.Context, symbol string) (netvalue.Quote, error) {
	q := netvalue.Quote{Symbol: symbol, DisplayName: symbol}
	addr := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=1d", url.PathEscape(symbol))

	var jobj any
	if err := jwget(ctx, new(http.Client), addr, &jobj); err != nil {
		return q, fmt.Errorf("error in wget %q: %w", symbol, err)
	}
	last, err := jfloat(jobj, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return q, err
	}
	lastD := decimal.NewFromFloat(last)
	q.Last = &lastD
	if name := jstring(jobj, "$.chart.result[0].meta.shortName"); name != "" {
		q.DisplayName = name
	}
	if prev, err := jfloat(jobj, "$.chart.result[0].meta.chartPreviousClose"); err == nil {
		prevD := decimal.NewFromFloat(prev)
		q.PrevClose = &prevD
	}
	return q, nil
}
