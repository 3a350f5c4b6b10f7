package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hmoreau/netvalue"
)

// TransactionFilter selects transactions for display listings.
type TransactionFilter struct {
	Accounts       []string // empty means every account
	Symbol         string   // empty means every symbol
	IncludeDeleted bool
}

// AddTransaction validates t, assigns it an id when missing, and appends it
// to the ledger together with a create revision. The account must exist.
func (s *Store) AddTransaction(t netvalue.Transaction) (netvalue.Transaction, error) {
	t, err := t.Validate()
	if err != nil {
		return t, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := s.requireAccounts([]string{t.Account}); err != nil {
		return t, err
	}

	row := toRow(t)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		return appendRevision(tx, row, RevisionCreate)
	})
	return t, err
}

// UpdateTransaction replaces the stored fields of the transaction with t's,
// matched by t.ID, and records an update revision. Deleted transactions must
// be restored before editing.
func (s *Store) UpdateTransaction(t netvalue.Transaction) (netvalue.Transaction, error) {
	t, err := t.Validate()
	if err != nil {
		return t, err
	}
	if err := s.requireAccounts([]string{t.Account}); err != nil {
		return t, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		current, err := getRow(tx, t.ID)
		if err != nil {
			return err
		}
		if current.Deleted {
			return fmt.Errorf("transaction %s is deleted, restore it first", t.ID)
		}
		row := toRow(t)
		row.CreatedAt = current.CreatedAt
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		return appendRevision(tx, row, RevisionUpdate)
	})
	return t, err
}

// DeleteTransaction soft-deletes a transaction: the row stays for the audit
// trail and can be restored. Deleting twice is a no-op.
func (s *Store) DeleteTransaction(id string) error {
	return s.setDeleted(id, true, RevisionDelete)
}

// RestoreTransaction reverses a soft delete. Restoring a live transaction is
// a no-op.
func (s *Store) RestoreTransaction(id string) error {
	return s.setDeleted(id, false, RevisionRestore)
}

func (s *Store) setDeleted(id string, deleted bool, action string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		row, err := getRow(tx, id)
		if err != nil {
			return err
		}
		if row.Deleted == deleted {
			return nil
		}
		row.Deleted = deleted
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("%s transaction: %w", action, err)
		}
		return appendRevision(tx, row, action)
	})
}

// ListedTransaction is one listing row: the transaction plus its
// soft-delete flag.
type ListedTransaction struct {
	netvalue.Transaction
	Deleted bool
}

// ListTransactions returns transactions for display, newest first.
func (s *Store) ListTransactions(f TransactionFilter) ([]ListedTransaction, error) {
	if err := s.requireAccounts(f.Accounts); err != nil {
		return nil, err
	}
	q := s.db.Order("time desc, created_at desc")
	if len(f.Accounts) > 0 {
		q = q.Where("account IN ?", f.Accounts)
	}
	if f.Symbol != "" {
		q = q.Where("symbol = ?", netvalue.NormalizeSymbol(f.Symbol))
	}
	if !f.IncludeDeleted {
		q = q.Where("deleted = ?", false)
	}
	var rows []TransactionRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]ListedTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, ListedTransaction{Transaction: fromRow(row), Deleted: row.Deleted})
	}
	return out, nil
}

// Transactions implements netvalue.Ledger: the live transactions of the given
// accounts (all accounts when the filter is empty) in ascending time order.
// Filtering on an unknown account is an error.
func (s *Store) Transactions(accounts []string) ([]netvalue.Transaction, error) {
	if err := s.requireAccounts(accounts); err != nil {
		return nil, err
	}
	q := s.db.Where("deleted = ?", false).Order("time asc, created_at asc")
	if len(accounts) > 0 {
		q = q.Where("account IN ?", accounts)
	}
	var rows []TransactionRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return fromRows(rows), nil
}

// Revisions returns the audit trail of one transaction, oldest first.
func (s *Store) Revisions(txnID string) ([]TransactionRevision, error) {
	var revs []TransactionRevision
	err := s.db.Where("txn_id = ?", txnID).Order("revised_at asc").Find(&revs).Error
	if err != nil {
		return nil, fmt.Errorf("load revisions: %w", err)
	}
	return revs, nil
}

func getRow(tx *gorm.DB, id string) (TransactionRow, error) {
	var row TransactionRow
	err := tx.Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, fmt.Errorf("%s: %w", id, ErrTransactionNotFound)
	}
	if err != nil {
		return row, fmt.Errorf("load transaction %s: %w", id, err)
	}
	return row, nil
}

// appendRevision stores the action plus a JSON snapshot of the row as it is
// after the action.
func appendRevision(tx *gorm.DB, row TransactionRow, action string) error {
	snapshot, err := json.Marshal(fromRow(row))
	if err != nil {
		return fmt.Errorf("snapshot transaction %s: %w", row.ID, err)
	}
	rev := TransactionRevision{
		ID:        uuid.NewString(),
		TxnID:     row.ID,
		Action:    action,
		Snapshot:  string(snapshot),
		RevisedAt: time.Now().UTC(),
	}
	if err := tx.Create(&rev).Error; err != nil {
		return fmt.Errorf("append revision: %w", err)
	}
	return nil
}

func toRow(t netvalue.Transaction) TransactionRow {
	return TransactionRow{
		ID:         t.ID,
		Account:    t.Account,
		Kind:       string(t.Kind),
		Time:       t.Time,
		Symbol:     t.Symbol,
		Quantity:   t.Quantity,
		Price:      t.Price,
		CashAmount: t.CashAmount,
		Fees:       t.Fees,
		Note:       t.Note,
	}
}

func fromRow(row TransactionRow) netvalue.Transaction {
	return netvalue.Transaction{
		ID:         row.ID,
		Account:    row.Account,
		Kind:       netvalue.TxnKind(row.Kind),
		Time:       row.Time,
		Symbol:     row.Symbol,
		Quantity:   row.Quantity,
		Price:      row.Price,
		CashAmount: row.CashAmount,
		Fees:       row.Fees,
		Note:       row.Note,
	}
}

func fromRows(rows []TransactionRow) []netvalue.Transaction {
	out := make([]netvalue.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(row))
	}
	return out
}
