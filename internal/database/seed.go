package database

import (
	"fmt"

	"reconbooks/internal/models"
)

// Seed inserts a demo checking account and a handful of book records.
// It is an explicit call (wired to the seed CLI command), never run as an
// import side effect. Seeding an already-populated database is a no-op.
func (db *DB) Seed() error {
	accounts, err := db.ListBankAccounts()
	if err != nil {
		return err
	}
	if len(accounts) > 0 {
		return nil
	}

	accountID, err := db.CreateBankAccount(&models.BankAccount{
		Name:           "Main Checking",
		BankName:       "Demo Bank",
		AccountNumber:  "1234567890",
		AccountType:    models.AccountTypeChecking,
		Currency:       "USD",
		OpeningBalance: 5000,
		CurrentBalance: 5000,
		IsActive:       true,
	})
	if err != nil {
		return err
	}
	if err := db.SetPrimaryBankAccount(accountID); err != nil {
		return err
	}

	entries := []models.JournalEntry{
		{Description: "Office supplies", Amount: 125.50, Date: "2025-01-05"},
		{Description: "Monthly rent", Amount: 1800.00, Date: "2025-01-01"},
		{Description: "Client payment received", Amount: 2500.00, Date: "2025-01-08"},
	}
	for i := range entries {
		if _, err := db.CreateJournalEntry(&entries[i]); err != nil {
			return err
		}
	}

	invoices := []models.Invoice{
		{InvoiceNumber: "INV-2025-001", Total: 2500.00, DueDate: "2025-01-10", IssuedDate: "2024-12-27"},
		{InvoiceNumber: "INV-2025-002", Total: 780.25, IssuedDate: "2025-01-03"},
	}
	for i := range invoices {
		if _, err := db.CreateInvoice(&invoices[i]); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}
	return nil
}
