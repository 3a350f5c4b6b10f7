package netvalue

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name      string
		txn       Transaction
		wantField string // empty means valid
	}{
		{"valid buy", buy("2025-01-02", "AAPL", 10, 100), ""},
		{"valid sell", sell("2025-01-02", "AAPL", 10, 100), ""},
		{"valid deposit", deposit("2025-01-02", 1000), ""},
		{"valid withdraw", withdraw("2025-01-02", 1000), ""},
		{"buy at price zero is allowed", buy("2025-01-02", "AAPL", 10, 0), ""},
		{"buy without symbol", buy("2025-01-02", "  ", 10, 100), "symbol"},
		{"buy zero quantity", buy("2025-01-02", "AAPL", 0, 100), "quantity"},
		{"sell negative quantity", sell("2025-01-02", "AAPL", -5, 100), "quantity"},
		{"buy negative price", buy("2025-01-02", "AAPL", 10, -1), "price"},
		{"negative fees", buyFee("2025-01-02", "AAPL", 10, 100, -1), "fees"},
		{"deposit of nothing", deposit("2025-01-02", 0), "cash_amount"},
		{"negative withdraw", withdraw("2025-01-02", -50), "cash_amount"},
		{"unknown kind", Transaction{Kind: "TRANSFER", Time: at("2025-01-02")}, "kind"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.txn.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("Validate() field = %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}

func TestValidateQuickFixes(t *testing.T) {
	raw := NewBuy("main", at("2025-01-02"), "AAPL", dec(1), dec(10), decimal.Zero, "")
	raw.Symbol = " msft " // bypass the constructor's normalization
	fixed, err := raw.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if fixed.Symbol != "MSFT" {
		t.Errorf("Symbol = %q, want %q", fixed.Symbol, "MSFT")
	}

	var zero Transaction
	zero.Kind = KindDeposit
	zero.CashAmount = dec(100)
	fixed, err = zero.Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if fixed.Time.IsZero() {
		t.Error("Validate() left a zero time, want defaulted to now")
	}
}

func TestCashImpact(t *testing.T) {
	tests := []struct {
		name string
		txn  Transaction
		want float64
	}{
		{"deposit adds", deposit("2025-01-02", 1000), 1000},
		{"withdraw removes", withdraw("2025-01-02", 250), -250},
		{"buy debits principal plus fees", buyFee("2025-01-02", "AAPL", 10, 100, 5), -1005},
		{"sell credits principal minus fees", NewSell("main", at("2025-01-02"), "AAPL", dec(10), dec(100), dec(5), ""), 995},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.txn.CashImpact(); !got.Equal(dec(tc.want)) {
				t.Errorf("CashImpact() = %s, want %v", got, tc.want)
			}
		})
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct{ in, want string }{
		{"aapl", "AAPL"},
		{"  brk.b ", "BRK.B"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := NormalizeSymbol(tc.in); got != tc.want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTradeDate(t *testing.T) {
	txn := buy("2025-03-07", "AAPL", 1, 10)
	if got := txn.TradeDate(); got != day("2025-03-07") {
		t.Errorf("TradeDate() = %s, want 2025-03-07", got)
	}
}
