package database

import (
	"database/sql"
	"fmt"

	"reconbooks/internal/models"
)

// CreateBankStatement inserts a new bank statement
func (db *DB) CreateBankStatement(s *models.BankStatement) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO bank_statements (
			account_id, statement_number, import_id, start_date, end_date,
			closing_balance, currency, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.AccountID, s.StatementNumber, s.ImportID, s.StartDate, s.EndDate,
		s.ClosingBalance, s.Currency, s.Status)
	if err != nil {
		return 0, fmt.Errorf("insert bank statement: %w", err)
	}
	return result.LastInsertId()
}

// GetBankStatement returns a single statement by ID
func (db *DB) GetBankStatement(id int64) (*models.BankStatement, error) {
	var s models.BankStatement
	var reconciledAt sql.NullTime
	err := db.QueryRow(`
		SELECT id, account_id, statement_number, import_id, start_date, end_date,
			   closing_balance, currency, status, imported_at, reconciled_at
		FROM bank_statements
		WHERE id = ?
	`, id).Scan(&s.ID, &s.AccountID, &s.StatementNumber, &s.ImportID,
		&s.StartDate, &s.EndDate, &s.ClosingBalance, &s.Currency, &s.Status,
		&s.ImportedAt, &reconciledAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bank statement %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query bank statement: %w", err)
	}
	if reconciledAt.Valid {
		s.ReconciledAt = &reconciledAt.Time
	}
	return &s, nil
}

// ListBankStatementsByAccount returns an account's statements, newest import
// first.
func (db *DB) ListBankStatementsByAccount(accountID int64) ([]models.BankStatement, error) {
	rows, err := db.Query(`
		SELECT id, account_id, statement_number, import_id, start_date, end_date,
			   closing_balance, currency, status, imported_at, reconciled_at
		FROM bank_statements
		WHERE account_id = ?
		ORDER BY imported_at DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query bank statements: %w", err)
	}
	defer rows.Close()

	var statements []models.BankStatement
	for rows.Next() {
		var s models.BankStatement
		var reconciledAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.AccountID, &s.StatementNumber, &s.ImportID,
			&s.StartDate, &s.EndDate, &s.ClosingBalance, &s.Currency, &s.Status,
			&s.ImportedAt, &reconciledAt); err != nil {
			return nil, fmt.Errorf("scan bank statement: %w", err)
		}
		if reconciledAt.Valid {
			s.ReconciledAt = &reconciledAt.Time
		}
		statements = append(statements, s)
	}
	return statements, rows.Err()
}

// MarkStatementReconciled transitions a statement to reconciled and stamps
// the reconciliation time.
func (db *DB) MarkStatementReconciled(id int64) error {
	result, err := db.Exec(`
		UPDATE bank_statements
		SET status = ?, reconciled_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.StatementStatusReconciled, id)
	if err != nil {
		return fmt.Errorf("mark statement reconciled: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark statement reconciled: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bank statement %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteBankStatement deletes a statement and its transactions
func (db *DB) DeleteBankStatement(id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete statement: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM bank_transactions WHERE statement_id = ?`, id); err != nil {
		return fmt.Errorf("delete statement transactions: %w", err)
	}
	result, err := tx.Exec(`DELETE FROM bank_statements WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bank statement: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bank statement: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bank statement %d: %w", id, ErrNotFound)
	}
	return tx.Commit()
}
