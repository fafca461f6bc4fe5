package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconbooks/internal/models"
)

func TestRunAutoMatchingAppliesThreshold(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		// Two signals (amount + date): confidence 3, auto-matched.
		{Date: "2025-01-05", Description: "CARD PURCHASE 0117", Amount: 125.50, Direction: models.DirectionDebit},
		// One signal (amount): confidence 1, stays pending.
		{Date: "2025-06-20", Description: "CHECK 1044", Amount: 1800.00, Direction: models.DirectionDebit},
	})
	_, err := db.CreateJournalEntry(&models.JournalEntry{
		Description: "Office supplies", Amount: 125.50, Date: "2025-01-06",
	})
	require.NoError(t, err)
	_, err = db.CreateJournalEntry(&models.JournalEntry{
		Description: "Monthly rent", Amount: 1800.00, Date: "2025-01-01",
	})
	require.NoError(t, err)

	svc := NewService(db, db)
	result, err := svc.RunAutoMatching(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalProcessed)
	assert.Equal(t, 1, result.MatchedCount)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, ConfidenceMedium, result.Matches[0].Confidence)

	txns, err := db.ListBankTransactionsByStatement(statementID)
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusMatched, txns[0].Status)
	assert.Equal(t, models.TxnStatusPending, txns[1].Status)

	// The sub-threshold transaction still shows up as a recommendation.
	recs, err := svc.Recommendations(txns[1].ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, ConfidenceLow, recs[0].Confidence)
}

func TestRunAutoMatchingRerunOnlyTouchesPending(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		{Date: "2025-01-05", Description: "Office supplies", Amount: 125.50, Direction: models.DirectionDebit},
	})
	_, err := db.CreateJournalEntry(&models.JournalEntry{
		Description: "Office supplies", Amount: 125.50, Date: "2025-01-05",
	})
	require.NoError(t, err)

	svc := NewService(db, db)
	first, err := svc.RunAutoMatching(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.MatchedCount)

	second, err := svc.RunAutoMatching(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.TotalProcessed)
	assert.Equal(t, 0, second.MatchedCount)

	txns, err := db.ListBankTransactionsByStatement(statementID)
	require.NoError(t, err)
	assert.Equal(t, models.TxnStatusMatched, txns[0].Status)
}

func TestRecommendationsSortedByConfidence(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		{Date: "2025-01-08", Description: "INV-2025-001", Amount: 2500.00, Direction: models.DirectionCredit},
	})
	_, err := db.CreateJournalEntry(&models.JournalEntry{
		Description: "Client payment received", Amount: 2500.00, Date: "2025-06-01",
	})
	require.NoError(t, err)
	_, err = db.CreateInvoice(&models.Invoice{
		InvoiceNumber: "INV-2025-001", Total: 2500.00, DueDate: "2025-01-10", IssuedDate: "2024-12-27",
	})
	require.NoError(t, err)

	svc := NewService(db, db)
	txns, err := db.ListBankTransactionsByStatement(statementID)
	require.NoError(t, err)

	recs, err := svc.Recommendations(txns[0].ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// Invoice matches amount, date and description (invoice number): 5.
	// Journal entry matches amount only: 1.
	assert.Equal(t, models.BookTypeInvoice, recs[0].BookType)
	assert.Equal(t, ConfidenceHigh, recs[0].Confidence)
	assert.Equal(t, models.BookTypeJournalEntry, recs[1].BookType)
	assert.Equal(t, ConfidenceLow, recs[1].Confidence)
}

func TestRecommendationsExcludeInvoicesForDebits(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		{Date: "2025-01-10", Description: "INV-2025-001", Amount: 2500.00, Direction: models.DirectionDebit},
	})
	_, err := db.CreateInvoice(&models.Invoice{
		InvoiceNumber: "INV-2025-001", Total: 2500.00, DueDate: "2025-01-10", IssuedDate: "2024-12-27",
	})
	require.NoError(t, err)

	svc := NewService(db, db)
	txns, err := db.ListBankTransactionsByStatement(statementID)
	require.NoError(t, err)

	recs, err := svc.Recommendations(txns[0].ID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
