package netvalue

import (
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue/date"
)

// Ledger supplies the transactions to replay. It is implemented by the store
// package; the engines never touch the database directly.
type Ledger interface {
	// Transactions returns the live (non-deleted) transactions of the given
	// accounts, or of every account when the filter is empty, in ascending
	// time order. Filtering on an unknown account is an error.
	Transactions(accounts []string) ([]Transaction, error)
}

// SortTransactions orders transactions chronologically, oldest first.
// The sort is stable so same-timestamp entries keep their recorded order.
func SortTransactions(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool { return txns[i].Time.Before(txns[j].Time) })
}

// SymbolsTraded returns the sorted set of symbols bought or sold in txns.
func SymbolsTraded(txns []Transaction) []string {
	seen := make(map[string]bool)
	for _, t := range txns {
		if t.IsStock() && t.Symbol != "" {
			seen[t.Symbol] = true
		}
	}
	symbols := make([]string, 0, len(seen))
	for s := range seen {
		symbols = append(symbols, s)
	}
	slices.Sort(symbols)
	return symbols
}

// CashBalance returns the net cash position across all transactions.
func CashBalance(txns []Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.CashImpact())
	}
	return sum
}

// TradeBounds returns the earliest and latest trade dates found in txns,
// and false when the ledger is empty.
func TradeBounds(txns []Transaction) (first, last date.Date, ok bool) {
	for _, t := range txns {
		d := t.TradeDate()
		if !ok {
			first, last, ok = d, d, true
			continue
		}
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	return first, last, ok
}

// bucketByDay groups transactions by their trade date, each bucket in
// ascending time order. Keys are YYYY-MM-DD strings.
func bucketByDay(txns []Transaction) map[string][]Transaction {
	sorted := make([]Transaction, len(txns))
	copy(sorted, txns)
	SortTransactions(sorted)
	buckets := make(map[string][]Transaction)
	for _, t := range sorted {
		k := t.TradeDate().String()
		buckets[k] = append(buckets[k], t)
	}
	return buckets
}

// FilterBySymbol keeps the stock transactions of one symbol (case-insensitive).
func FilterBySymbol(txns []Transaction, symbol string) []Transaction {
	want := NormalizeSymbol(symbol)
	var out []Transaction
	for _, t := range txns {
		if t.IsStock() && strings.EqualFold(t.Symbol, want) {
			out = append(out, t)
		}
	}
	return out
}
