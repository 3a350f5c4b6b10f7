package netvalue

import (
	"slices"

	"github.com/shopspring/decimal"
)

// HoldingState is the running position of one symbol under average-cost
// accounting. The zero value is the empty position; AvgCost reads 0 whenever
// Shares is 0.
type HoldingState struct {
	Shares  decimal.Decimal
	AvgCost decimal.Decimal
}

// Buy returns the state after purchasing quantity shares at price plus fees.
// Fees are absorbed into the average cost:
//
//	new_avg = (shares*avg + quantity*price + fees) / (shares + quantity)
func (h HoldingState) Buy(quantity, price, fees decimal.Decimal) HoldingState {
	if !quantity.IsPositive() {
		return h
	}
	total := h.Shares.Add(quantity)
	if total.IsZero() {
		return HoldingState{}
	}
	cost := quantity.Mul(price).Add(fees)
	avg := h.Shares.Mul(h.AvgCost).Add(cost).Div(total)
	return HoldingState{Shares: total, AvgCost: avg}
}

// Sell returns the state after selling quantity shares. The average cost is
// unchanged while shares remain; selling everything (or more than held, which
// clamps at zero) resets the position entirely.
func (h HoldingState) Sell(quantity decimal.Decimal) HoldingState {
	if !quantity.IsPositive() {
		return h
	}
	remaining := h.Shares.Sub(quantity)
	if !remaining.IsPositive() {
		return HoldingState{}
	}
	return HoldingState{Shares: remaining, AvgCost: h.AvgCost}
}

// Cost returns the book cost of the position, shares times average cost.
func (h HoldingState) Cost() decimal.Decimal { return h.Shares.Mul(h.AvgCost) }

// IsFlat reports whether no shares are held.
func (h HoldingState) IsFlat() bool { return h.Shares.IsZero() }

// Holdings tracks per-symbol positions during a ledger replay.
type Holdings map[string]HoldingState

// Get returns the state for symbol; absent symbols read as the empty position.
func (hs Holdings) Get(symbol string) HoldingState { return hs[symbol] }

// Apply mutates the holdings with one transaction. Cash movements never touch
// holdings; they are accumulated separately by the replay.
func (hs Holdings) Apply(t Transaction) {
	sym := NormalizeSymbol(t.Symbol)
	if !t.IsStock() || sym == "" || !t.Quantity.IsPositive() {
		return
	}
	switch t.Kind {
	case KindBuy:
		hs[sym] = hs[sym].Buy(t.Quantity, t.Price, t.Fees)
	case KindSell:
		hs[sym] = hs[sym].Sell(t.Quantity)
	}
}

// Symbols returns every symbol the holdings have seen, flat ones included,
// in sorted order.
func (hs Holdings) Symbols() []string {
	symbols := make([]string, 0, len(hs))
	for s := range hs {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)
	return symbols
}

// TotalCost sums the book cost over all non-flat positions.
func (hs Holdings) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, h := range hs {
		if h.IsFlat() {
			continue
		}
		total = total.Add(h.Cost())
	}
	return total
}

// AnyHeld reports whether at least one position has shares.
func (hs Holdings) AnyHeld() bool {
	for _, h := range hs {
		if !h.IsFlat() {
			return true
		}
	}
	return false
}
