package database

import (
	"database/sql"
	"fmt"

	"reconbooks/internal/models"
)

// CreateBankAccount inserts a new bank account
func (db *DB) CreateBankAccount(a *models.BankAccount) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO bank_accounts (
			name, bank_name, account_number, account_type, currency,
			opening_balance, current_balance, is_primary, is_active
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Name, a.BankName, a.AccountNumber, a.AccountType, a.Currency,
		a.OpeningBalance, a.CurrentBalance, a.IsPrimary, a.IsActive)
	if err != nil {
		return 0, fmt.Errorf("insert bank account: %w", err)
	}
	return result.LastInsertId()
}

// GetBankAccount returns a single account by ID
func (db *DB) GetBankAccount(id int64) (*models.BankAccount, error) {
	var a models.BankAccount
	err := db.QueryRow(`
		SELECT id, name, bank_name, account_number, account_type, currency,
			   opening_balance, current_balance, is_primary, is_active,
			   created_at, updated_at
		FROM bank_accounts
		WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.BankName, &a.AccountNumber, &a.AccountType,
		&a.Currency, &a.OpeningBalance, &a.CurrentBalance, &a.IsPrimary,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bank account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query bank account: %w", err)
	}
	return &a, nil
}

// ListBankAccounts returns all accounts ordered by creation
func (db *DB) ListBankAccounts() ([]models.BankAccount, error) {
	rows, err := db.Query(`
		SELECT id, name, bank_name, account_number, account_type, currency,
			   opening_balance, current_balance, is_primary, is_active,
			   created_at, updated_at
		FROM bank_accounts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		var a models.BankAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.BankName, &a.AccountNumber,
			&a.AccountType, &a.Currency, &a.OpeningBalance, &a.CurrentBalance,
			&a.IsPrimary, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// BankAccountUpdate carries partial-update fields for an account. Nil fields
// keep their existing values; the account id itself never changes.
type BankAccountUpdate struct {
	Name           *string
	BankName       *string
	AccountNumber  *string
	AccountType    *string
	Currency       *string
	OpeningBalance *float64
	CurrentBalance *float64
	IsActive       *bool
}

// UpdateBankAccount applies a partial update to an account
func (db *DB) UpdateBankAccount(id int64, u BankAccountUpdate) error {
	existing, err := db.GetBankAccount(id)
	if err != nil {
		return err
	}

	if u.Name != nil {
		existing.Name = *u.Name
	}
	if u.BankName != nil {
		existing.BankName = *u.BankName
	}
	if u.AccountNumber != nil {
		existing.AccountNumber = *u.AccountNumber
	}
	if u.AccountType != nil {
		existing.AccountType = *u.AccountType
	}
	if u.Currency != nil {
		existing.Currency = *u.Currency
	}
	if u.OpeningBalance != nil {
		existing.OpeningBalance = *u.OpeningBalance
	}
	if u.CurrentBalance != nil {
		existing.CurrentBalance = *u.CurrentBalance
	}
	if u.IsActive != nil {
		existing.IsActive = *u.IsActive
	}

	_, err = db.Exec(`
		UPDATE bank_accounts
		SET name = ?, bank_name = ?, account_number = ?, account_type = ?,
			currency = ?, opening_balance = ?, current_balance = ?,
			is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, existing.Name, existing.BankName, existing.AccountNumber,
		existing.AccountType, existing.Currency, existing.OpeningBalance,
		existing.CurrentBalance, existing.IsActive, id)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	return nil
}

// SetPrimaryBankAccount marks one account as primary and clears the flag on
// every other account in the same transaction, so at most one account is
// primary at any time.
func (db *DB) SetPrimaryBankAccount(id int64) error {
	if _, err := db.GetBankAccount(id); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin set primary: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE bank_accounts SET is_primary = 0, updated_at = CURRENT_TIMESTAMP WHERE is_primary = 1`); err != nil {
		return fmt.Errorf("clear primary accounts: %w", err)
	}
	if _, err := tx.Exec(`UPDATE bank_accounts SET is_primary = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id); err != nil {
		return fmt.Errorf("set primary account: %w", err)
	}
	return tx.Commit()
}

// DeleteBankAccount deletes an account by ID
func (db *DB) DeleteBankAccount(id int64) error {
	result, err := db.Exec(`DELETE FROM bank_accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bank account %d: %w", id, ErrNotFound)
	}
	return nil
}
