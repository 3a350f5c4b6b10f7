package netvalue

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue/date"
)

// dec is a helper for tests to create decimals from const.
func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// decP is dec for the optional fields.
func decP(v float64) *decimal.Decimal {
	d := dec(v)
	return &d
}

// day is a helper for tests to parse dates from const.
func day(s string) date.Date { return date.MustParse(s) }

// at places a transaction at market close (16:00 UTC) of the given day.
func at(s string) time.Time {
	d := day(s)
	return time.Date(d.Year(), d.Month(), d.Day(), 16, 0, 0, 0, time.UTC)
}

func buy(on, sym string, qty, price float64) Transaction {
	return NewBuy("main", at(on), sym, dec(qty), dec(price), decimal.Zero, "")
}

func buyFee(on, sym string, qty, price, fees float64) Transaction {
	return NewBuy("main", at(on), sym, dec(qty), dec(price), dec(fees), "")
}

func sell(on, sym string, qty, price float64) Transaction {
	return NewSell("main", at(on), sym, dec(qty), dec(price), decimal.Zero, "")
}

func deposit(on string, amount float64) Transaction {
	return NewDeposit("main", at(on), dec(amount), decimal.Zero, "")
}

func withdraw(on string, amount float64) Transaction {
	return NewWithdraw("main", at(on), dec(amount), decimal.Zero, "")
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// memLedger is an in-memory Ledger for engine tests.
type memLedger struct {
	txns []Transaction
	err  error
}

func (l *memLedger) Transactions(accounts []string) ([]Transaction, error) {
	if l.err != nil {
		return nil, l.err
	}
	if len(accounts) == 0 {
		return append([]Transaction(nil), l.txns...), nil
	}
	var out []Transaction
	for _, t := range l.txns {
		for _, a := range accounts {
			if t.Account == a {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

// memStore is an in-memory PriceStore for fetcher and engine tests.
type memStore struct {
	rows      map[string]map[string]decimal.Decimal
	saved     []CachedPrice
	upserts   int
	loadErr   error
	upsertErr error
}

func newMemStore(closes map[string]map[string]float64) *memStore {
	rows := make(map[string]map[string]decimal.Decimal)
	for sym, byDate := range closes {
		rows[sym] = make(map[string]decimal.Decimal)
		for d, c := range byDate {
			rows[sym][d] = dec(c)
		}
	}
	return &memStore{rows: rows}
}

func (m *memStore) LoadPrices(symbols []string, r date.Range) (map[string]map[string]decimal.Decimal, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(map[string]map[string]decimal.Decimal, len(symbols))
	for _, sym := range symbols {
		out[sym] = make(map[string]decimal.Decimal)
		for ds, c := range m.rows[sym] {
			if d, err := date.Parse(ds); err == nil && r.Contains(d) {
				out[sym][ds] = c
			}
		}
	}
	return out, nil
}

func (m *memStore) UpsertPrices(prices []CachedPrice) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts++
	m.saved = append(m.saved, prices...)
	if m.rows == nil {
		m.rows = make(map[string]map[string]decimal.Decimal)
	}
	for _, p := range prices {
		if m.rows[p.Symbol] == nil {
			m.rows[p.Symbol] = make(map[string]decimal.Decimal)
		}
		m.rows[p.Symbol][p.Date] = p.Close
	}
	return nil
}

// fakeProvider serves canned closes and counts calls.
type fakeProvider struct {
	closes      map[string]map[string]float64 // symbol -> date -> close
	batchEmpty  map[string]bool               // symbols the batch returns nothing for
	err         error
	batchCalls  int
	symbolCalls int
	batchSpans  []date.Range
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) pointsIn(symbol string, r date.Range) []ClosePoint {
	var out []ClosePoint
	for d := range r.Days() {
		if c, ok := p.closes[symbol][d.String()]; ok {
			out = append(out, ClosePoint{Date: d, Close: dec(c)})
		}
	}
	return out
}

func (p *fakeProvider) FetchDailyCloses(ctx context.Context, symbols []string, r date.Range) (map[string][]ClosePoint, error) {
	p.batchCalls++
	p.batchSpans = append(p.batchSpans, r)
	if p.err != nil {
		return nil, p.err
	}
	out := make(map[string][]ClosePoint)
	for _, sym := range symbols {
		if p.batchEmpty[sym] {
			continue
		}
		out[sym] = p.pointsIn(sym, r)
	}
	return out, nil
}

func (p *fakeProvider) FetchSymbolCloses(ctx context.Context, symbol string, r date.Range) ([]ClosePoint, error) {
	p.symbolCalls++
	if p.err != nil {
		return nil, p.err
	}
	return p.pointsIn(symbol, r), nil
}

// newTestEngine wires an engine over in-memory everything. Closes are
// preloaded into the price store, so no fetching happens unless a test asks
// for days beyond them.
func newTestEngine(txns []Transaction, closes map[string]map[string]float64) (*Engine, *fakeProvider, *memStore) {
	store := newMemStore(closes)
	provider := &fakeProvider{closes: map[string]map[string]float64{}}
	eng := NewEngine(&memLedger{txns: txns}, NewPriceService(store, provider, 0))
	return eng, provider, store
}
