package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconbooks/internal/database"
	"reconbooks/internal/models"
)

func TestCalculateDifferenceIdentity(t *testing.T) {
	txns := []models.BankTransaction{
		{Amount: 2500.00, Direction: models.DirectionCredit},
		{Amount: 4.50, Direction: models.DirectionDebit},
		{Amount: 1800.00, Direction: models.DirectionDebit},
	}

	// The difference is credits - debits regardless of the closing balance.
	for _, closing := range []float64{0, 5000, -123.45} {
		statement := models.BankStatement{ClosingBalance: closing}
		difference, credits, debits := CalculateDifference(statement, txns)
		assert.InDelta(t, 2500.00, credits, 1e-9)
		assert.InDelta(t, 1804.50, debits, 1e-9)
		assert.InDelta(t, credits-debits, difference, 1e-9)
	}
}

func TestCalculateDifferenceEmpty(t *testing.T) {
	difference, credits, debits := CalculateDifference(models.BankStatement{ClosingBalance: 5000}, nil)
	assert.Zero(t, difference)
	assert.Zero(t, credits)
	assert.Zero(t, debits)
}

func TestReconciledBoundary(t *testing.T) {
	statement := models.BankStatement{ID: 1, Status: models.StatementStatusImported}

	// 0.009999 is within tolerance, 0.01 is not.
	within := buildSummary(statement, []models.BankTransaction{
		{Amount: 0.009999, Direction: models.DirectionCredit},
	})
	assert.True(t, within.IsReconciled)

	boundary := buildSummary(statement, []models.BankTransaction{
		{Amount: 0.01, Direction: models.DirectionCredit},
	})
	assert.False(t, boundary.IsReconciled)
}

// setupLedger creates an in-memory store with one account, one statement and
// the given transactions.
func setupLedger(t *testing.T, txns []models.BankTransaction) (*database.DB, int64) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Init())

	accountID, err := db.CreateBankAccount(&models.BankAccount{
		Name:        "Checking",
		AccountType: models.AccountTypeChecking,
		Currency:    "USD",
		IsActive:    true,
	})
	require.NoError(t, err)

	statementID, err := db.CreateBankStatement(&models.BankStatement{
		AccountID:       accountID,
		StatementNumber: "STMT-TEST-1",
		StartDate:       "2025-01-01",
		EndDate:         "2025-01-31",
		Status:          models.StatementStatusImported,
	})
	require.NoError(t, err)

	for i := range txns {
		txns[i].StatementID = statementID
		_, err := db.CreateBankTransaction(&txns[i])
		require.NoError(t, err)
	}
	return db, statementID
}

func TestSummaryCounts(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		{Date: "2025-01-05", Description: "Coffee", Amount: 4.50, Direction: models.DirectionDebit},
		{Date: "2025-01-06", Description: "Refund", Amount: 4.50, Direction: models.DirectionCredit},
	})
	svc := NewService(db, db)

	summary, err := svc.Summary(statementID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalTransactions)
	assert.Equal(t, 0, summary.MatchedCount)
	assert.Equal(t, 2, summary.UnmatchedCount)
	assert.InDelta(t, 0, summary.Difference, 1e-9)
	assert.True(t, summary.IsReconciled)
	assert.Equal(t, models.StatementStatusImported, summary.Status)
}

func TestSummaryNotFound(t *testing.T) {
	db, _ := setupLedger(t, nil)
	svc := NewService(db, db)

	_, err := svc.Summary(999)
	require.ErrorIs(t, err, database.ErrNotFound)
}

func TestMarkReconciled(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		{Date: "2025-01-05", Description: "Coffee", Amount: 4.50, Direction: models.DirectionDebit},
		{Date: "2025-01-06", Description: "Refund", Amount: 4.50, Direction: models.DirectionCredit},
	})
	svc := NewService(db, db)

	ok, err := svc.MarkReconciled(statementID)
	require.NoError(t, err)
	assert.True(t, ok)

	statement, err := db.GetBankStatement(statementID)
	require.NoError(t, err)
	assert.Equal(t, models.StatementStatusReconciled, statement.Status)
	assert.NotNil(t, statement.ReconciledAt)
}

func TestMarkReconciledRefusesUnbalanced(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		{Date: "2025-01-05", Description: "Coffee", Amount: 4.50, Direction: models.DirectionDebit},
	})
	svc := NewService(db, db)

	ok, err := svc.MarkReconciled(statementID)
	require.NoError(t, err)
	assert.False(t, ok)

	statement, err := db.GetBankStatement(statementID)
	require.NoError(t, err)
	assert.Equal(t, models.StatementStatusImported, statement.Status)
	assert.Nil(t, statement.ReconciledAt)
}

func TestItemsSplit(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		{Date: "2025-01-05", Description: "Coffee", Amount: 4.50, Direction: models.DirectionDebit},
		{Date: "2025-01-06", Description: "Rent", Amount: 1800, Direction: models.DirectionDebit},
	})
	svc := NewService(db, db)

	txns, err := db.ListBankTransactionsByStatement(statementID)
	require.NoError(t, err)
	ok, err := db.MatchTransaction(txns[0].ID, models.BookTypeJournalEntry, 1)
	require.NoError(t, err)
	require.True(t, ok)

	matched, unmatched, err := svc.Items(statementID)
	require.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Len(t, unmatched, 1)
	assert.Equal(t, "Coffee", matched[0].Description)
}

func TestHistoryAndReport(t *testing.T) {
	db, statementID := setupLedger(t, []models.BankTransaction{
		{Date: "2025-01-05", Description: "Coffee", Amount: 4.50, Direction: models.DirectionDebit},
	})
	svc := NewService(db, db)

	statement, err := db.GetBankStatement(statementID)
	require.NoError(t, err)

	history, err := svc.History(statement.AccountID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, statementID, history[0].Statement.ID)
	assert.Equal(t, 1, history[0].Summary.UnmatchedCount)

	report, err := svc.Report(statement.AccountID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalStatements)
	assert.Equal(t, 0, report.ReconciledStatements)
	assert.Equal(t, 1, report.UnmatchedTransactions)
	assert.Contains(t, report.Recommendations, "1 statements have not been reconciled yet")
}

func TestReportNotFoundAccount(t *testing.T) {
	db, _ := setupLedger(t, nil)
	svc := NewService(db, db)

	_, err := svc.Report(42)
	require.ErrorIs(t, err, database.ErrNotFound)
}
