package netvalue

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"
)

// Quote is a live quote snapshot for one symbol. Nil prices mean the value
// could not be fetched; DisplayName falls back to the symbol itself.
type Quote struct {
	Symbol      string
	DisplayName string
	Last        *decimal.Decimal
	PrevClose   *decimal.Decimal
}

// QuoteSource serves live quotes for the point-in-time summary. It never
// fails: symbols it cannot price come back with nil prices.
type QuoteSource interface {
	Quotes(ctx context.Context, symbols []string) map[string]Quote
}

// Position is one holding row of the point-in-time summary. The starred
// fields are nil when no live quote is available for the symbol.
type Position struct {
	Symbol          string
	DisplayName     string
	Shares          decimal.Decimal
	AvgCost         decimal.Decimal
	Cost            decimal.Decimal
	LatestPrice     *decimal.Decimal
	MarketValue     *decimal.Decimal
	UnrealizedPL    *decimal.Decimal
	UnrealizedPLPct *decimal.Decimal
	WeightPct       *decimal.Decimal
}

// AccountCash is the cash balance of a single account.
type AccountCash struct {
	Account string
	Cash    decimal.Decimal
}

// Summary is the point-in-time snapshot of a ledger: open positions under
// average-cost accounting, cash, and intraday profit/loss from live quotes.
type Summary struct {
	Cash             decimal.Decimal
	AccountCash      []AccountCash
	Positions        []Position
	TotalCost        decimal.Decimal
	TotalMarketValue decimal.Decimal
	TodayPL          decimal.Decimal
	TodayPLPct       *decimal.Decimal
}

// SummarizeLedger loads the selected accounts from the ledger, quotes the
// symbols still held, and builds the summary. Flat symbols are not quoted.
func SummarizeLedger(ctx context.Context, ledger Ledger, quotes QuoteSource, accounts []string) (*Summary, error) {
	txns, err := ledger.Transactions(accounts)
	if err != nil {
		return nil, err
	}

	holdings := make(Holdings)
	for _, t := range txns {
		holdings.Apply(t)
	}
	var held []string
	for _, sym := range holdings.Symbols() {
		if !holdings[sym].IsFlat() {
			held = append(held, sym)
		}
	}

	var live map[string]Quote
	if len(held) > 0 && quotes != nil {
		live = quotes.Quotes(ctx, held)
	}
	return BuildSummary(txns, live), nil
}

// BuildSummary replays the transactions into open positions and enriches them
// with live quotes. Positions use the same average-cost transitions as the
// curve replay, so the summary's cost column matches the curve's baseline on
// the same day. Quantities are rounded to 4 decimals, money to cents.
func BuildSummary(txns []Transaction, quotes map[string]Quote) *Summary {
	sorted := make([]Transaction, len(txns))
	copy(sorted, txns)
	SortTransactions(sorted)

	holdings := make(Holdings)
	cash := decimal.Zero
	byAccount := make(map[string]decimal.Decimal)
	for _, t := range sorted {
		holdings.Apply(t)
		impact := t.CashImpact()
		cash = cash.Add(impact)
		byAccount[t.Account] = byAccount[t.Account].Add(impact)
	}

	s := &Summary{Cash: round2(cash)}
	accounts := make([]string, 0, len(byAccount))
	for name := range byAccount {
		accounts = append(accounts, name)
	}
	slices.Sort(accounts)
	for _, name := range accounts {
		s.AccountCash = append(s.AccountCash, AccountCash{Account: name, Cash: round2(byAccount[name])})
	}

	totalCost := decimal.Zero
	totalMV := decimal.Zero
	todayPL := decimal.Zero
	prevValue := decimal.Zero

	for _, sym := range holdings.Symbols() {
		h := holdings[sym]
		if h.IsFlat() {
			continue
		}
		p := Position{
			Symbol:      sym,
			DisplayName: sym,
			Shares:      round4(h.Shares),
			AvgCost:     round2(h.AvgCost),
			Cost:        round2(h.Cost()),
		}
		totalCost = totalCost.Add(h.Cost())

		q, ok := quotes[sym]
		if ok && q.DisplayName != "" {
			p.DisplayName = q.DisplayName
		}
		if ok && q.Last != nil {
			last := round2(*q.Last)
			p.LatestPrice = &last
			mv := round2(h.Shares.Mul(*q.Last))
			p.MarketValue = &mv
			totalMV = totalMV.Add(mv)
			pl := mv.Sub(p.Cost)
			p.UnrealizedPL = &pl
			if !p.Cost.IsZero() {
				pct := round2(pl.Div(p.Cost).Mul(decimal.NewFromInt(100)))
				p.UnrealizedPLPct = &pct
			}
			if q.PrevClose != nil {
				todayPL = todayPL.Add(h.Shares.Mul(q.Last.Sub(*q.PrevClose)))
				prevValue = prevValue.Add(h.Shares.Mul(*q.PrevClose))
			}
		}
		s.Positions = append(s.Positions, p)
	}

	// Weights need the full market value, so they come in a second pass.
	for i := range s.Positions {
		mv := s.Positions[i].MarketValue
		if mv == nil || !totalMV.IsPositive() {
			continue
		}
		w := round2(mv.Div(totalMV).Mul(decimal.NewFromInt(100)))
		s.Positions[i].WeightPct = &w
	}

	s.TotalCost = round2(totalCost)
	s.TotalMarketValue = round2(totalMV)
	s.TodayPL = round2(todayPL)
	if !prevValue.IsZero() {
		pct := round2(todayPL.Div(prevValue).Mul(decimal.NewFromInt(100)))
		s.TodayPLPct = &pct
	}
	return s
}
