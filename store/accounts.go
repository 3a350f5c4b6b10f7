package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// CreateAccount registers a new account name.
func (s *Store) CreateAccount(name string) (Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Account{}, errors.New("account name must not be empty")
	}
	exists, err := s.accountExists(s.db, name)
	if err != nil {
		return Account{}, err
	}
	if exists {
		return Account{}, fmt.Errorf("%q: %w", name, ErrAccountExists)
	}
	acc := Account{Name: name}
	if err := s.db.Create(&acc).Error; err != nil {
		return Account{}, fmt.Errorf("create account %q: %w", name, err)
	}
	return acc, nil
}

// ListAccounts returns every account, sorted by name.
func (s *Store) ListAccounts() ([]Account, error) {
	var accounts []Account
	if err := s.db.Order("name").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// RenameAccount renames an account and repoints its transactions, deleted
// ones included. The whole move is one database transaction.
func (s *Store) RenameAccount(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return errors.New("account name must not be empty")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.accountExists(tx, oldName)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%q: %w", oldName, ErrAccountNotFound)
		}
		taken, err := s.accountExists(tx, newName)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%q: %w", newName, ErrAccountExists)
		}
		if err := tx.Create(&Account{Name: newName}).Error; err != nil {
			return fmt.Errorf("create account %q: %w", newName, err)
		}
		if err := tx.Model(&TransactionRow{}).Where("account = ?", oldName).Update("account", newName).Error; err != nil {
			return fmt.Errorf("repoint transactions of %q: %w", oldName, err)
		}
		if err := tx.Delete(&Account{Name: oldName}).Error; err != nil {
			return fmt.Errorf("drop account %q: %w", oldName, err)
		}
		return nil
	})
}

// DeleteAccount removes an account. It refuses while any transaction, live or
// deleted, still references the account; the ledger is an audit trail and
// silently orphaning rows would break it.
func (s *Store) DeleteAccount(name string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.accountExists(tx, name)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%q: %w", name, ErrAccountNotFound)
		}
		var n int64
		if err := tx.Model(&TransactionRow{}).Where("account = ?", name).Count(&n).Error; err != nil {
			return fmt.Errorf("count transactions of %q: %w", name, err)
		}
		if n > 0 {
			return fmt.Errorf("%q has %d transactions: %w", name, n, ErrAccountNotEmpty)
		}
		return tx.Delete(&Account{Name: name}).Error
	})
}

func (s *Store) accountExists(tx *gorm.DB, name string) (bool, error) {
	var n int64
	if err := tx.Model(&Account{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, fmt.Errorf("look up account %q: %w", name, err)
	}
	return n > 0, nil
}

// requireAccounts verifies every named account exists, so a typo in a filter
// errors out instead of silently producing an empty result.
func (s *Store) requireAccounts(names []string) error {
	for _, name := range names {
		exists, err := s.accountExists(s.db, name)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%q: %w", name, ErrAccountNotFound)
		}
	}
	return nil
}
