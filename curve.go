package netvalue

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue/date"
)

// Baseline labels echoed in the curve metadata.
const (
	labelBookValue    = "Book Value (cash + holdings cost)"
	labelHoldingsCost = "Holdings Cost (avg)"
)

// PriceSeriesSource is the slice of the price service the replay needs.
type PriceSeriesSource interface {
	HistoricalSeries(ctx context.Context, symbols []string, r date.Range, refresh bool) (map[string][]SeriesPoint, error)
}

// CurveRequest selects what ComputeCurve replays.
type CurveRequest struct {
	// Accounts filters the ledger; empty means every account.
	Accounts []string
	// Start defaults to the earliest trade date in the ledger.
	Start *date.Date
	// End defaults to today or the latest trade date, whichever is later.
	End *date.Date
	// IncludeCash folds the cash balance into baseline and market value.
	IncludeCash bool
	// Refresh refetches the whole price range instead of only cache gaps.
	Refresh bool
}

// Curve is the columnar day-by-day valuation of a ledger. All value arrays
// share the length of Dates; money is rounded to cents. ProfitLossPct is nil
// on days the baseline is not strictly positive.
type Curve struct {
	BaselineLabel   string     `json:"baseline_label"`
	PriceType       string     `json:"price_type"`
	IncludesCash    bool       `json:"includes_cash"`
	Dates           []string   `json:"dates"`
	Baseline        []float64  `json:"baseline"`
	MarketValue     []float64  `json:"market_value"`
	ProfitLoss      []float64  `json:"profit_loss"`
	ProfitLossPct   []*float64 `json:"profit_loss_pct"`
	IsTradingDay    []bool     `json:"is_trading_day"`
	LastTradingDate []string   `json:"last_trading_date"`
}

// Len returns the number of days in the curve.
func (c *Curve) Len() int { return len(c.Dates) }

func baselineLabel(includeCash bool) string {
	if includeCash {
		return labelBookValue
	}
	return labelHoldingsCost
}

func emptyCurve(includeCash bool) *Curve {
	return &Curve{
		BaselineLabel:   baselineLabel(includeCash),
		PriceType:       PriceTypeClose,
		IncludesCash:    includeCash,
		Dates:           []string{},
		Baseline:        []float64{},
		MarketValue:     []float64{},
		ProfitLoss:      []float64{},
		ProfitLossPct:   []*float64{},
		IsTradingDay:    []bool{},
		LastTradingDate: []string{},
	}
}

// Engine replays a ledger into valuation curves.
type Engine struct {
	ledger Ledger
	prices PriceSeriesSource
}

// NewEngine wires a replay engine to its ledger and price sources.
func NewEngine(ledger Ledger, prices PriceSeriesSource) *Engine {
	return &Engine{ledger: ledger, prices: prices}
}

// ComputeCurve replays the selected transactions day by day under
// average-cost accounting and values the resulting positions against
// forward-filled daily closes.
//
// A day's transactions apply before that day's close is used, so a same-day
// buy is already part of that day's market value. Replay state starts empty
// at the range start: transactions dated before an explicit Start are not
// counted. An empty ledger, or Start after End, yields an empty curve, not
// an error.
func (e *Engine) ComputeCurve(ctx context.Context, req CurveRequest) (*Curve, error) {
	txns, err := e.ledger.Transactions(req.Accounts)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return emptyCurve(req.IncludeCash), nil
	}

	buckets := bucketByDay(txns)
	first, last, _ := TradeBounds(txns)
	start := first
	if req.Start != nil {
		start = *req.Start
	}
	end := date.Max(last, date.Today())
	if req.End != nil {
		end = *req.End
	}
	if start.After(end) {
		return emptyCurve(req.IncludeCash), nil
	}
	r := date.NewRange(start, end)

	series, err := e.prices.HistoricalSeries(ctx, symbolsInRange(buckets, r), r, req.Refresh)
	if err != nil {
		return nil, err
	}

	curve := emptyCurve(req.IncludeCash)
	holdings := make(Holdings)
	cash := decimal.Zero

	offset := 0
	for d := range r.Days() {
		day := d.String()
		for _, t := range buckets[day] {
			holdings.Apply(t)
			cash = cash.Add(t.CashImpact())
		}
		dayCash := round2(cash)

		// Value every open position against its point for this day. The
		// last held symbol (sorted, for determinism) also decides the
		// trading-day flag and the reported last trading date.
		stockCost := holdings.TotalCost()
		stockMV := decimal.Zero
		anyTrading := false
		lastTrading := day
		for _, sym := range holdings.Symbols() {
			h := holdings[sym]
			if h.IsFlat() {
				continue
			}
			points := series[sym]
			if offset >= len(points) {
				continue
			}
			pt := points[offset]
			if pt.Close != nil {
				stockMV = stockMV.Add(h.Shares.Mul(*pt.Close))
			}
			if pt.LastTradingDate == d {
				anyTrading = true
			}
			lastTrading = pt.LastTradingDate.String()
		}
		if !holdings.AnyHeld() {
			// Nothing to price: fall back to a weekday calendar proxy.
			wd := d.Weekday()
			anyTrading = wd != time.Saturday && wd != time.Sunday
			lastTrading = day
		}

		baseline := stockCost
		mv := stockMV
		if req.IncludeCash {
			baseline = baseline.Add(dayCash)
			mv = mv.Add(dayCash)
		}
		pl := round2(mv.Sub(baseline))

		curve.Dates = append(curve.Dates, day)
		curve.Baseline = append(curve.Baseline, round2(baseline).InexactFloat64())
		curve.MarketValue = append(curve.MarketValue, round2(mv).InexactFloat64())
		curve.ProfitLoss = append(curve.ProfitLoss, pl.InexactFloat64())
		var pct *float64
		if baseline.IsPositive() {
			v := round2(pl.Div(baseline).Mul(decimal.NewFromInt(100))).InexactFloat64()
			pct = &v
		}
		curve.ProfitLossPct = append(curve.ProfitLossPct, pct)
		curve.IsTradingDay = append(curve.IsTradingDay, anyTrading)
		curve.LastTradingDate = append(curve.LastTradingDate, lastTrading)

		offset++
	}
	return curve, nil
}

// symbolsInRange collects the symbols bought or sold on any day of r,
// in sorted order.
func symbolsInRange(buckets map[string][]Transaction, r date.Range) []string {
	seen := make(map[string]bool)
	for d := range r.Days() {
		for _, t := range buckets[d.String()] {
			if !t.IsStock() {
				continue
			}
			if sym := NormalizeSymbol(t.Symbol); sym != "" {
				seen[sym] = true
			}
		}
	}
	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	slices.Sort(symbols)
	return symbols
}
