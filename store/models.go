package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is an investment account. The name is the key users refer to it by;
// transactions reference accounts by name.
type Account struct {
	Name      string `gorm:"primaryKey;size:64"`
	CreatedAt time.Time
}

// TransactionRow is the persisted form of a ledger transaction. Deleted rows
// stay in the table (soft delete) so they can be restored and audited.
type TransactionRow struct {
	ID         string          `gorm:"primaryKey;size:36"`
	Account    string          `gorm:"index;not null"`
	Kind       string          `gorm:"not null"`
	Time       time.Time       `gorm:"index;not null"`
	Symbol     string          `gorm:"index"`
	Quantity   decimal.Decimal `gorm:"type:numeric"`
	Price      decimal.Decimal `gorm:"type:numeric"`
	CashAmount decimal.Decimal `gorm:"type:numeric"`
	Fees       decimal.Decimal `gorm:"type:numeric"`
	Note       string
	Deleted    bool `gorm:"index;not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Revision actions recorded in the audit trail.
const (
	RevisionCreate  = "create"
	RevisionUpdate  = "update"
	RevisionDelete  = "delete"
	RevisionRestore = "restore"
)

// TransactionRevision is one entry of the ledger's audit trail: the action
// performed and a JSON snapshot of the transaction after it.
type TransactionRevision struct {
	ID        string `gorm:"primaryKey;size:36"`
	TxnID     string `gorm:"index;not null"`
	Action    string `gorm:"not null"`
	Snapshot  string `gorm:"type:text;not null"`
	RevisedAt time.Time
}

// Price is one cached daily close, unique per (symbol, date).
type Price struct {
	Symbol    string          `gorm:"primaryKey;size:32"`
	Date      string          `gorm:"primaryKey;size:10"` // YYYY-MM-DD
	Close     decimal.Decimal `gorm:"type:numeric;not null"`
	PriceType string          `gorm:"not null"`
	UpdatedAt time.Time
}
