package netvalue

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
)

// memQuotes serves canned quotes and records what was asked.
type memQuotes struct {
	quotes map[string]Quote
	asked  [][]string
}

func (m *memQuotes) Quotes(_ context.Context, symbols []string) map[string]Quote {
	m.asked = append(m.asked, slices.Clone(symbols))
	out := make(map[string]Quote, len(symbols))
	for _, sym := range symbols {
		if q, ok := m.quotes[sym]; ok {
			out[sym] = q
		}
	}
	return out
}

func assertDecP(t *testing.T, name string, got *decimal.Decimal, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %v", name, want)
		return
	}
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertNilDec(t *testing.T, name string, got *decimal.Decimal) {
	t.Helper()
	if got != nil {
		t.Errorf("%s = %v, want nil", name, got)
	}
}

func TestBuildSummaryPositions(t *testing.T) {
	txns := []Transaction{
		deposit("2025-01-06", 10000),
		buyFee("2025-01-07", "AAPL", 10, 100, 5),
		buy("2025-01-07", "GOOG", 5, 50),
		sell("2025-01-08", "AAPL", 5, 120),
	}
	quotes := map[string]Quote{
		"AAPL": {Symbol: "AAPL", DisplayName: "Apple Inc.", Last: decP(110), PrevClose: decP(105)},
	}

	s := BuildSummary(txns, quotes)

	if got, want := s.Cash, dec(9345); !got.Equal(want) {
		t.Errorf("cash = %v, want %v", got, want)
	}
	if len(s.Positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(s.Positions))
	}

	aapl := s.Positions[0]
	if got, want := aapl.Symbol, "AAPL"; got != want {
		t.Fatalf("positions not sorted, first is %q", got)
	}
	if got, want := aapl.DisplayName, "Apple Inc."; got != want {
		t.Errorf("display name = %q, want %q", got, want)
	}
	if got, want := aapl.Shares, dec(5); !got.Equal(want) {
		t.Errorf("shares = %v, want %v", got, want)
	}
	if got, want := aapl.AvgCost, dec(100.5); !got.Equal(want) {
		t.Errorf("avg cost = %v, want %v: fees are part of the average", got, want)
	}
	if got, want := aapl.Cost, dec(502.5); !got.Equal(want) {
		t.Errorf("cost = %v, want %v", got, want)
	}
	assertDecP(t, "latest price", aapl.LatestPrice, 110)
	assertDecP(t, "market value", aapl.MarketValue, 550)
	assertDecP(t, "unrealized P/L", aapl.UnrealizedPL, 47.5)
	assertDecP(t, "unrealized P/L pct", aapl.UnrealizedPLPct, 9.45)
	assertDecP(t, "weight", aapl.WeightPct, 100)

	goog := s.Positions[1]
	if got, want := goog.DisplayName, "GOOG"; got != want {
		t.Errorf("display name = %q, want the symbol itself", got)
	}
	assertNilDec(t, "latest price", goog.LatestPrice)
	assertNilDec(t, "market value", goog.MarketValue)
	assertNilDec(t, "unrealized P/L", goog.UnrealizedPL)
	assertNilDec(t, "weight", goog.WeightPct)

	if got, want := s.TotalCost, dec(752.5); !got.Equal(want) {
		t.Errorf("total cost = %v, want %v", got, want)
	}
	if got, want := s.TotalMarketValue, dec(550); !got.Equal(want) {
		t.Errorf("total market value = %v, want %v", got, want)
	}
	if got, want := s.TodayPL, dec(25); !got.Equal(want) {
		t.Errorf("today P/L = %v, want %v", got, want)
	}
	assertDecP(t, "today P/L pct", s.TodayPLPct, 4.76)
}

func TestBuildSummaryAccountCash(t *testing.T) {
	txns := []Transaction{
		deposit("2025-01-06", 10000),
		NewDeposit("savings", at("2025-01-06"), dec(500), decimal.Zero, ""),
		withdraw("2025-01-07", 200),
	}
	s := BuildSummary(txns, nil)

	if got, want := s.Cash, dec(10300); !got.Equal(want) {
		t.Errorf("cash = %v, want %v", got, want)
	}
	if len(s.AccountCash) != 2 {
		t.Fatalf("got %d account balances, want 2", len(s.AccountCash))
	}
	if got := s.AccountCash[0]; got.Account != "main" || !got.Cash.Equal(dec(9800)) {
		t.Errorf("first account = %+v, want main with 9800", got)
	}
	if got := s.AccountCash[1]; got.Account != "savings" || !got.Cash.Equal(dec(500)) {
		t.Errorf("second account = %+v, want savings with 500", got)
	}
}

func TestBuildSummaryNoQuotes(t *testing.T) {
	s := BuildSummary([]Transaction{buy("2025-01-06", "AAPL", 10, 100)}, nil)

	if len(s.Positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(s.Positions))
	}
	p := s.Positions[0]
	assertNilDec(t, "latest price", p.LatestPrice)
	assertNilDec(t, "market value", p.MarketValue)
	if got, want := s.TotalMarketValue, decimal.Zero; !got.Equal(want) {
		t.Errorf("total market value = %v, want 0", got)
	}
	if !s.TodayPL.IsZero() {
		t.Errorf("today P/L = %v, want 0", s.TodayPL)
	}
	assertNilDec(t, "today P/L pct", s.TodayPLPct)
}

func TestBuildSummaryExcludesFlatPositions(t *testing.T) {
	txns := []Transaction{
		buy("2025-01-06", "AAPL", 10, 100),
		sell("2025-01-08", "AAPL", 10, 120),
	}
	s := BuildSummary(txns, nil)

	if len(s.Positions) != 0 {
		t.Fatalf("got %d positions, want none after full liquidation", len(s.Positions))
	}
	if !s.TotalCost.IsZero() {
		t.Errorf("total cost = %v, want 0", s.TotalCost)
	}
	// The sale proceeds stay in cash.
	if got, want := s.Cash, dec(200); !got.Equal(want) {
		t.Errorf("cash = %v, want %v", got, want)
	}
}

func TestBuildSummarySortsTransactions(t *testing.T) {
	// Given out of order, the sell must still apply after the buy.
	txns := []Transaction{
		sell("2025-01-08", "AAPL", 5, 120),
		buy("2025-01-06", "AAPL", 10, 100),
	}
	s := BuildSummary(txns, nil)

	if len(s.Positions) != 1 {
		t.Fatalf("got %d positions, want 1", len(s.Positions))
	}
	if got, want := s.Positions[0].Shares, dec(5); !got.Equal(want) {
		t.Errorf("shares = %v, want %v", got, want)
	}
	if got, want := s.Positions[0].Cost, dec(500); !got.Equal(want) {
		t.Errorf("cost = %v, want %v", got, want)
	}
}

func TestBuildSummaryZeroCostPosition(t *testing.T) {
	s := BuildSummary(
		[]Transaction{buy("2025-01-06", "FREE", 10, 0)},
		map[string]Quote{"FREE": {Symbol: "FREE", Last: decP(5)}},
	)

	p := s.Positions[0]
	assertDecP(t, "market value", p.MarketValue, 50)
	assertDecP(t, "unrealized P/L", p.UnrealizedPL, 50)
	// No cost basis, no percentage.
	assertNilDec(t, "unrealized P/L pct", p.UnrealizedPLPct)
	assertDecP(t, "weight", p.WeightPct, 100)
}

func TestSummarizeLedgerQuotesOnlyHeldSymbols(t *testing.T) {
	ledger := &memLedger{txns: []Transaction{
		deposit("2025-01-06", 10000),
		buy("2025-01-07", "AAPL", 10, 100),
		buy("2025-01-07", "GOOG", 5, 50),
		sell("2025-01-08", "GOOG", 5, 60),
	}}
	quotes := &memQuotes{quotes: map[string]Quote{
		"AAPL": {Symbol: "AAPL", Last: decP(110)},
	}}

	s, err := SummarizeLedger(context.Background(), ledger, quotes, nil)
	if err != nil {
		t.Fatalf("SummarizeLedger() error = %v", err)
	}

	if len(quotes.asked) != 1 || !slices.Equal(quotes.asked[0], []string{"AAPL"}) {
		t.Errorf("quoted %v, want a single call for [AAPL]: GOOG is flat", quotes.asked)
	}
	if len(s.Positions) != 1 || s.Positions[0].Symbol != "AAPL" {
		t.Fatalf("positions = %+v, want AAPL only", s.Positions)
	}
	assertDecP(t, "market value", s.Positions[0].MarketValue, 1100)
}

func TestSummarizeLedgerAllFlat(t *testing.T) {
	ledger := &memLedger{txns: []Transaction{
		deposit("2025-01-06", 1000),
	}}
	quotes := &memQuotes{}

	s, err := SummarizeLedger(context.Background(), ledger, quotes, nil)
	if err != nil {
		t.Fatalf("SummarizeLedger() error = %v", err)
	}
	if len(quotes.asked) != 0 {
		t.Errorf("quoted %v, want no quote calls without holdings", quotes.asked)
	}
	if got, want := s.Cash, dec(1000); !got.Equal(want) {
		t.Errorf("cash = %v, want %v", got, want)
	}
}

func TestSummarizeLedgerAccountFilter(t *testing.T) {
	ledger := &memLedger{txns: []Transaction{
		deposit("2025-01-06", 1000),
		NewDeposit("savings", at("2025-01-06"), dec(500), decimal.Zero, ""),
	}}

	s, err := SummarizeLedger(context.Background(), ledger, &memQuotes{}, []string{"savings"})
	if err != nil {
		t.Fatalf("SummarizeLedger() error = %v", err)
	}
	if got, want := s.Cash, dec(500); !got.Equal(want) {
		t.Errorf("cash = %v, want %v", got, want)
	}
}

func TestSummarizeLedgerError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := SummarizeLedger(context.Background(), &memLedger{err: boom}, &memQuotes{}, nil); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want the ledger error", err)
	}
}

func TestBuildSummaryTodayPLNeedsPrevClose(t *testing.T) {
	txns := []Transaction{
		buy("2025-01-06", "AAPL", 10, 100),
		buy("2025-01-06", "GOOG", 5, 50),
	}
	quotes := map[string]Quote{
		"AAPL": {Symbol: "AAPL", Last: decP(110), PrevClose: decP(105)},
		"GOOG": {Symbol: "GOOG", Last: decP(60)},
	}
	s := BuildSummary(txns, quotes)

	// GOOG has no previous close: it counts in market value and weights
	// but stays out of the intraday P/L.
	if got, want := s.TotalMarketValue, dec(1400); !got.Equal(want) {
		t.Errorf("total market value = %v, want %v", got, want)
	}
	if got, want := s.TodayPL, dec(50); !got.Equal(want) {
		t.Errorf("today P/L = %v, want %v", got, want)
	}
	assertDecP(t, "today P/L pct", s.TodayPLPct, 4.76)
	assertDecP(t, "AAPL weight", s.Positions[0].WeightPct, 78.57)
	assertDecP(t, "GOOG weight", s.Positions[1].WeightPct, 21.43)
}
