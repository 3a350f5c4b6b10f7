package netvalue

import (
	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue/date"
)

// SeriesPoint is one calendar day in a forward-filled price series.
// Close is nil until the symbol's first cached trading day in the range.
// LastTradingDate names the trading day the close was observed on; while no
// close is known yet it equals the point's own date, so a genuine trading day
// is exactly a point where LastTradingDate == Date.
type SeriesPoint struct {
	Date            date.Date        `json:"date"`
	Close           *decimal.Decimal `json:"close"`
	LastTradingDate date.Date        `json:"last_trading_date"`
}

// BuildDailySeries expands sparse trading-day closes into one point per
// calendar day of r, forward-filling the last known close. byDate maps
// YYYY-MM-DD to a close; entries outside r do not participate, so the fill
// always starts empty at the beginning of the range.
func BuildDailySeries(byDate map[string]decimal.Decimal, r date.Range) []SeriesPoint {
	closes := new(date.History[decimal.Decimal])
	for s, c := range byDate {
		d, err := date.Parse(s)
		if err != nil || !r.Contains(d) {
			continue
		}
		closes.Append(d, c)
	}

	out := make([]SeriesPoint, 0, r.Len())
	for d := range r.Days() {
		pt := SeriesPoint{Date: d, LastTradingDate: d}
		if tradedOn, close, ok := closes.LatestAsOf(d); ok {
			pt.Close = &close
			pt.LastTradingDate = tradedOn
		}
		out = append(out, pt)
	}
	return out
}
