package database

import (
	"database/sql"
	"fmt"

	"reconbooks/internal/models"
)

const txnColumns = `id, statement_id, txn_date, description, amount, direction,
	   category, reference, status, matched_book_type, matched_book_id,
	   matched_at, created_at, updated_at`

func scanTransaction(scan func(dest ...any) error) (models.BankTransaction, error) {
	var t models.BankTransaction
	var matchedBookID sql.NullInt64
	var matchedAt sql.NullTime
	err := scan(&t.ID, &t.StatementID, &t.Date, &t.Description, &t.Amount,
		&t.Direction, &t.Category, &t.Reference, &t.Status, &t.MatchedBookType,
		&matchedBookID, &matchedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	if matchedBookID.Valid {
		t.MatchedBookID = &matchedBookID.Int64
	}
	if matchedAt.Valid {
		t.MatchedAt = &matchedAt.Time
	}
	return t, nil
}

// CreateBankTransaction inserts a new bank transaction
func (db *DB) CreateBankTransaction(t *models.BankTransaction) (int64, error) {
	status := t.Status
	if status == "" {
		status = models.TxnStatusPending
	}
	result, err := db.Exec(`
		INSERT INTO bank_transactions (
			statement_id, txn_date, description, amount, direction,
			category, reference, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.StatementID, t.Date, t.Description, t.Amount, t.Direction,
		t.Category, t.Reference, status)
	if err != nil {
		return 0, fmt.Errorf("insert bank transaction: %w", err)
	}
	return result.LastInsertId()
}

// GetBankTransaction returns a single transaction by ID
func (db *DB) GetBankTransaction(id int64) (*models.BankTransaction, error) {
	t, err := scanTransaction(db.QueryRow(`
		SELECT `+txnColumns+`
		FROM bank_transactions
		WHERE id = ?
	`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bank transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query bank transaction: %w", err)
	}
	return &t, nil
}

func (db *DB) queryTransactions(query string, args ...any) ([]models.BankTransaction, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bank transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.BankTransaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan bank transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// ListBankTransactionsByStatement returns all transactions for a statement
func (db *DB) ListBankTransactionsByStatement(statementID int64) ([]models.BankTransaction, error) {
	return db.queryTransactions(`
		SELECT `+txnColumns+`
		FROM bank_transactions
		WHERE statement_id = ?
		ORDER BY txn_date, id
	`, statementID)
}

// ListAllBankTransactions returns every transaction in the ledger
func (db *DB) ListAllBankTransactions() ([]models.BankTransaction, error) {
	return db.queryTransactions(`
		SELECT ` + txnColumns + `
		FROM bank_transactions
		ORDER BY txn_date, id
	`)
}

// GetUnmatchedTransactions returns all transactions still pending
func (db *DB) GetUnmatchedTransactions() ([]models.BankTransaction, error) {
	return db.queryTransactions(`
		SELECT `+txnColumns+`
		FROM bank_transactions
		WHERE status = ?
		ORDER BY txn_date, id
	`, models.TxnStatusPending)
}

// GetMatchedTransactions returns all matched transactions
func (db *DB) GetMatchedTransactions() ([]models.BankTransaction, error) {
	return db.queryTransactions(`
		SELECT `+txnColumns+`
		FROM bank_transactions
		WHERE status = ?
		ORDER BY txn_date, id
	`, models.TxnStatusMatched)
}

// MatchTransaction links a bank transaction to a book record and marks it
// matched. Returns false (without error) when the transaction id is unknown,
// so bulk matching loops can skip misses without aborting.
func (db *DB) MatchTransaction(txnID int64, bookType string, bookID int64) (bool, error) {
	result, err := db.Exec(`
		UPDATE bank_transactions
		SET status = ?, matched_book_type = ?, matched_book_id = ?,
			matched_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.TxnStatusMatched, bookType, bookID, txnID)
	if err != nil {
		return false, fmt.Errorf("match transaction: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("match transaction: %w", err)
	}
	return n > 0, nil
}

// UnmatchTransaction clears a transaction's match and returns it to pending.
// Returns false (without error) when the transaction id is unknown.
func (db *DB) UnmatchTransaction(txnID int64) (bool, error) {
	result, err := db.Exec(`
		UPDATE bank_transactions
		SET status = ?, matched_book_type = '', matched_book_id = NULL,
			matched_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, models.TxnStatusPending, txnID)
	if err != nil {
		return false, fmt.Errorf("unmatch transaction: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unmatch transaction: %w", err)
	}
	return n > 0, nil
}
