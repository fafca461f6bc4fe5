package database

import (
	"fmt"

	"reconbooks/internal/models"
)

// Book records (journal entries and invoices) live in the wider accounting
// application; the reconciliation core only reads them. The create operations
// exist for seeding and for tests.

// CreateJournalEntry inserts a journal entry
func (db *DB) CreateJournalEntry(e *models.JournalEntry) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO journal_entries (description, amount, entry_date)
		VALUES (?, ?, ?)
	`, e.Description, e.Amount, e.Date)
	if err != nil {
		return 0, fmt.Errorf("insert journal entry: %w", err)
	}
	return result.LastInsertId()
}

// ListJournalEntries returns all journal entries
func (db *DB) ListJournalEntries() ([]models.JournalEntry, error) {
	rows, err := db.Query(`
		SELECT id, description, amount, entry_date, created_at
		FROM journal_entries
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateInvoice inserts an invoice
func (db *DB) CreateInvoice(i *models.Invoice) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO invoices (invoice_number, total, due_date, issued_date)
		VALUES (?, ?, ?, ?)
	`, i.InvoiceNumber, i.Total, i.DueDate, i.IssuedDate)
	if err != nil {
		return 0, fmt.Errorf("insert invoice: %w", err)
	}
	return result.LastInsertId()
}

// ListInvoices returns all invoices
func (db *DB) ListInvoices() ([]models.Invoice, error) {
	rows, err := db.Query(`
		SELECT id, invoice_number, total, due_date, issued_date, created_at
		FROM invoices
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var i models.Invoice
		if err := rows.Scan(&i.ID, &i.InvoiceNumber, &i.Total, &i.DueDate, &i.IssuedDate, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, i)
	}
	return invoices, rows.Err()
}
