package models

import (
	"math"
	"time"
)

// Account types
const (
	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"
)

// Statement statuses
const (
	StatementStatusImported   = "imported"
	StatementStatusReconciled = "reconciled"
)

// Transaction statuses
const (
	TxnStatusPending = "pending"
	TxnStatusMatched = "matched"
)

// Transaction directions
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// Book record types a bank transaction can be matched against
const (
	BookTypeJournalEntry = "journal_entry"
	BookTypeInvoice      = "invoice"
)

type BankAccount struct {
	ID             int64
	Name           string
	BankName       string
	AccountNumber  string
	AccountType    string // "checking" or "savings"
	Currency       string // ISO 4217 code
	OpeningBalance float64
	CurrentBalance float64
	IsPrimary      bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BankStatement is an imported batch of transactions covering a date range.
type BankStatement struct {
	ID              int64
	AccountID       int64
	StatementNumber string
	ImportID        string // batch id assigned at import
	StartDate       string // YYYY-MM-DD
	EndDate         string // YYYY-MM-DD
	ClosingBalance  float64
	Currency        string
	Status          string // "imported" or "reconciled"
	ImportedAt      time.Time
	ReconciledAt    *time.Time
}

// BankTransaction is a single statement line. Amount is always non-negative;
// Direction carries the sign. Status is "matched" iff MatchedBookID is set.
type BankTransaction struct {
	ID              int64
	StatementID     int64
	Date            string // YYYY-MM-DD
	Description     string
	Amount          float64
	Direction       string // "credit" or "debit"
	Category        string
	Reference       string
	Status          string // "pending" or "matched"
	MatchedBookType string // "journal_entry" or "invoice", empty when pending
	MatchedBookID   *int64
	MatchedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SignedAmount returns the amount with the direction applied.
func (t BankTransaction) SignedAmount() float64 {
	if t.Direction == DirectionDebit {
		return -t.Amount
	}
	return t.Amount
}

// JournalEntry is a book record (read-only to the reconciliation core).
type JournalEntry struct {
	ID          int64
	Description string
	Amount      float64
	Date        string // YYYY-MM-DD
	CreatedAt   time.Time
}

// Invoice is a book record (read-only to the reconciliation core).
// Only credit-direction bank transactions may match invoices.
type Invoice struct {
	ID            int64
	InvoiceNumber string
	Total         float64
	DueDate       string // YYYY-MM-DD, may be empty
	IssuedDate    string // YYYY-MM-DD
	CreatedAt     time.Time
}

// MatchDate returns the date used when matching against bank transactions:
// the due date when present, otherwise the issued date.
func (i Invoice) MatchDate() string {
	if i.DueDate != "" {
		return i.DueDate
	}
	return i.IssuedDate
}

// ReconciliationSummary is the derived per-statement state.
type ReconciliationSummary struct {
	StatementID       int64
	StatementNumber   string
	Status            string
	TotalTransactions int
	MatchedCount      int
	UnmatchedCount    int
	TotalCredits      float64
	TotalDebits       float64
	ClosingBalance    float64
	Difference        float64
	IsReconciled      bool
}

// ReconciliationReport rolls statement summaries into account-wide totals.
type ReconciliationReport struct {
	AccountID             int64
	AccountName           string
	TotalStatements       int
	ReconciledStatements  int
	TotalTransactions     int
	MatchedTransactions   int
	UnmatchedTransactions int
	Recommendations       []string
}

// ImportResult describes one completed statement import.
type ImportResult struct {
	Statement     BankStatement
	Transactions  []BankTransaction
	ImportedCount int
	// DateFallbacks counts rows whose date failed to parse and defaulted
	// to the import time.
	DateFallbacks int
}

// ValidationResult is the outcome of pre-import file validation.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// WithinTolerance reports whether two monetary amounts are equal within the
// fixed 0.01 currency-unit tolerance used throughout reconciliation.
func WithinTolerance(a, b float64) bool {
	return math.Abs(a-b) <= 0.01
}
