package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconbooks/internal/models"
)

func txn(date, description string, amount float64, direction string) models.BankTransaction {
	return models.BankTransaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		Direction:   direction,
		Status:      models.TxnStatusPending,
	}
}

func TestScoreSignals(t *testing.T) {
	bank := txn("2025-01-05", "Coffee", 4.50, models.DirectionDebit)

	tests := []struct {
		name        string
		description string
		amount      float64
		date        string
		confidence  int
	}{
		{"all three", "Coffee", 4.50, "2025-01-05", ConfidenceHigh},
		{"amount and date", "Something else", 4.50, "2025-01-06", ConfidenceMedium},
		{"amount only", "Something else", 4.50, "2025-03-01", ConfidenceLow},
		{"date only", "Something else", 99.99, "2025-01-07", ConfidenceLow},
		{"description only", "coffee", 99.99, "2025-03-01", ConfidenceLow},
		{"nothing", "Something else", 99.99, "2025-03-01", ConfidenceNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confidence, _ := Score(bank, tt.description, tt.amount, tt.date)
			assert.Equal(t, tt.confidence, confidence)
		})
	}
}

func TestScoreConfidenceLevels(t *testing.T) {
	// Confidence only ever takes the values 0, 1, 3 or 5, and adding a
	// signal never lowers it.
	assert.Equal(t, 0, confidenceFor(0))
	assert.Equal(t, 1, confidenceFor(1))
	assert.Equal(t, 3, confidenceFor(2))
	assert.Equal(t, 5, confidenceFor(3))
}

func TestAmountTolerance(t *testing.T) {
	assert.True(t, amountsMatch(100.00, 100.01))
	assert.True(t, amountsMatch(100.01, 100.00))
	assert.False(t, amountsMatch(100.00, 100.02))
}

func TestDateTolerance(t *testing.T) {
	assert.True(t, datesMatch("2025-01-05", "2025-01-05"))
	assert.True(t, datesMatch("2025-01-05", "2025-01-07"))
	assert.True(t, datesMatch("2025-01-07", "2025-01-05"))
	assert.False(t, datesMatch("2025-01-05", "2025-01-08"))
	assert.False(t, datesMatch("2025-01-05", "garbage"))
}

func TestDescriptionMatching(t *testing.T) {
	tests := []struct {
		a, b  string
		match bool
	}{
		{"Coffee", "coffee", true},
		{"Client Payment", "clientpayment", true},
		{"ACME *Corp.", "ACME Corp", true},
		{"Coffee", "Tea", false},
		{"", "", false},
		{"", "Coffee", false},
		{"   ", "Coffee", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.match, descriptionsMatch(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestFindMatchPicksBestCandidate(t *testing.T) {
	bank := txn("2025-01-05", "Office supplies", 125.50, models.DirectionDebit)
	entries := []models.JournalEntry{
		{ID: 1, Description: "Unrelated", Amount: 125.50, Date: "2025-06-01"}, // amount only
		{ID: 2, Description: "Office supplies", Amount: 125.50, Date: "2025-01-05"}, // all three
		{ID: 3, Description: "Office supplies", Amount: 999, Date: "2025-01-05"}, // date + description
	}

	match := FindMatch(bank, entries, nil)
	require.NotNil(t, match)
	assert.Equal(t, int64(2), match.BookID)
	assert.Equal(t, ConfidenceHigh, match.Confidence)
	assert.Equal(t, models.BookTypeJournalEntry, match.BookType)
	assert.Contains(t, match.Reason, "amount")
	assert.Contains(t, match.Reason, "date")
	assert.Contains(t, match.Reason, "description")
}

func TestFindMatchNoCandidates(t *testing.T) {
	bank := txn("2025-01-05", "Coffee", 4.50, models.DirectionDebit)
	entries := []models.JournalEntry{
		{ID: 1, Description: "Rent", Amount: 1800, Date: "2025-06-01"},
	}
	assert.Nil(t, FindMatch(bank, entries, nil))
	assert.Nil(t, FindMatch(bank, nil, nil))
}

func TestFindMatchTieKeepsJournalEntry(t *testing.T) {
	// A tied invoice never displaces a tied journal entry: journal entries
	// are evaluated first and ties keep the first candidate seen.
	bank := txn("2025-01-10", "INV-2025-001", 2500.00, models.DirectionCredit)
	entries := []models.JournalEntry{
		{ID: 7, Description: "INV-2025-001", Amount: 2500.00, Date: "2025-01-10"},
	}
	invoices := []models.Invoice{
		{ID: 9, InvoiceNumber: "INV-2025-001", Total: 2500.00, DueDate: "2025-01-10"},
	}

	match := FindMatch(bank, entries, invoices)
	require.NotNil(t, match)
	assert.Equal(t, models.BookTypeJournalEntry, match.BookType)
	assert.Equal(t, int64(7), match.BookID)
}

func TestFindMatchDebitNeverMatchesInvoice(t *testing.T) {
	// Invoices represent money coming in; a debit must not match one even on
	// a perfect three-signal overlap.
	bank := txn("2025-01-10", "INV-2025-001", 2500.00, models.DirectionDebit)
	invoices := []models.Invoice{
		{ID: 9, InvoiceNumber: "INV-2025-001", Total: 2500.00, DueDate: "2025-01-10"},
	}
	assert.Nil(t, FindMatch(bank, nil, invoices))
}

func TestFindMatchInvoiceDateFallsBackToIssued(t *testing.T) {
	bank := txn("2025-01-03", "INV-2025-002", 780.25, models.DirectionCredit)
	invoices := []models.Invoice{
		{ID: 4, InvoiceNumber: "INV-2025-002", Total: 780.25, IssuedDate: "2025-01-03"},
	}
	match := FindMatch(bank, nil, invoices)
	require.NotNil(t, match)
	assert.Equal(t, ConfidenceHigh, match.Confidence)
}
