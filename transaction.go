package netvalue

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hmoreau/netvalue/date"
)

// TxnKind is a typed string for identifying ledger transaction kinds.
type TxnKind string

// Transaction kinds recorded in the ledger.
const (
	KindBuy      TxnKind = "BUY"
	KindSell     TxnKind = "SELL"
	KindDeposit  TxnKind = "CASH_DEPOSIT"
	KindWithdraw TxnKind = "CASH_WITHDRAW"
)

// Transaction is a single ledger entry, the source of truth for all
// valuations. Buy/Sell carry Symbol, Quantity and Price; Deposit/Withdraw
// carry CashAmount. Fees apply to every kind and default to zero.
type Transaction struct {
	ID         string          `json:"txn_id"`
	Account    string          `json:"account"`
	Kind       TxnKind         `json:"kind"`
	Time       time.Time       `json:"time"`
	Symbol     string          `json:"symbol,omitempty"`
	Quantity   decimal.Decimal `json:"quantity,omitempty"`
	Price      decimal.Decimal `json:"price,omitempty"`
	CashAmount decimal.Decimal `json:"cash_amount,omitempty"`
	Fees       decimal.Decimal `json:"fees"`
	Note       string          `json:"note,omitempty"`
}

// NormalizeSymbol normalizes a ticker for storage: strip and uppercase.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NewBuy creates a new Buy transaction with a fresh id.
func NewBuy(account string, at time.Time, symbol string, quantity, price, fees decimal.Decimal, note string) Transaction {
	return Transaction{
		ID:       uuid.NewString(),
		Account:  account,
		Kind:     KindBuy,
		Time:     at,
		Symbol:   NormalizeSymbol(symbol),
		Quantity: quantity,
		Price:    price,
		Fees:     fees,
		Note:     note,
	}
}

// NewSell creates a new Sell transaction with a fresh id.
func NewSell(account string, at time.Time, symbol string, quantity, price, fees decimal.Decimal, note string) Transaction {
	t := NewBuy(account, at, symbol, quantity, price, fees, note)
	t.Kind = KindSell
	return t
}

// NewDeposit creates a new cash deposit with a fresh id.
func NewDeposit(account string, at time.Time, amount, fees decimal.Decimal, note string) Transaction {
	return Transaction{
		ID:         uuid.NewString(),
		Account:    account,
		Kind:       KindDeposit,
		Time:       at,
		CashAmount: amount,
		Fees:       fees,
		Note:       note,
	}
}

// NewWithdraw creates a new cash withdrawal with a fresh id.
func NewWithdraw(account string, at time.Time, amount, fees decimal.Decimal, note string) Transaction {
	t := NewDeposit(account, at, amount, fees, note)
	t.Kind = KindWithdraw
	return t
}

// TradeDate returns the calendar date the transaction settles on.
func (t Transaction) TradeDate() date.Date { return date.FromTime(t.Time) }

// IsStock reports whether the transaction trades a security.
func (t Transaction) IsStock() bool { return t.Kind == KindBuy || t.Kind == KindSell }

// IsCash reports whether the transaction only moves cash.
func (t Transaction) IsCash() bool { return t.Kind == KindDeposit || t.Kind == KindWithdraw }

// CashImpact returns the net cash effect of the transaction.
// Positive adds cash, negative removes it.
func (t Transaction) CashImpact() decimal.Decimal {
	switch t.Kind {
	case KindDeposit:
		return t.CashAmount
	case KindWithdraw:
		return t.CashAmount.Neg()
	case KindBuy:
		return t.Quantity.Mul(t.Price).Add(t.Fees).Neg()
	case KindSell:
		return t.Quantity.Mul(t.Price).Sub(t.Fees)
	}
	return decimal.Zero
}

// Validate checks the transaction fields against its kind and returns a copy
// with quick fixes applied (normalized symbol, zero time defaulting to now).
func (t Transaction) Validate() (Transaction, error) {
	if t.Time.IsZero() {
		t.Time = time.Now()
	}
	if t.Fees.IsNegative() {
		return t, invalidf("fees", "must not be negative, got %s", t.Fees)
	}
	switch t.Kind {
	case KindBuy, KindSell:
		t.Symbol = NormalizeSymbol(t.Symbol)
		if t.Symbol == "" {
			return t, invalidf("symbol", "required for %s", t.Kind)
		}
		if !t.Quantity.IsPositive() {
			return t, invalidf("quantity", "%s requires quantity > 0, got %s", t.Kind, t.Quantity)
		}
		if t.Price.IsNegative() {
			return t, invalidf("price", "%s requires price >= 0, got %s", t.Kind, t.Price)
		}
	case KindDeposit, KindWithdraw:
		if NormalizeSymbol(t.Symbol) != "" {
			return t, invalidf("symbol", "not allowed for %s", t.Kind)
		}
		if !t.CashAmount.IsPositive() {
			return t, invalidf("cash_amount", "%s requires cash_amount > 0, got %s", t.Kind, t.CashAmount)
		}
	default:
		return t, invalidf("kind", "unknown transaction kind %q", string(t.Kind))
	}
	return t, nil
}
