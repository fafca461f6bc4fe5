package parser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconbooks/internal/models"
)

func TestParseCSVDebitRow(t *testing.T) {
	rows, err := ParseCSV(context.Background(), "date,description,amount\n2025-01-05,Coffee,-4.50\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Coffee", rows[0].Description)
	assert.Equal(t, 4.50, rows[0].Amount)
	assert.Equal(t, models.DirectionDebit, rows[0].Direction)
	assert.Equal(t, "2025-01-05", rows[0].Date.Format("2006-01-02"))
	assert.False(t, rows[0].DateFallback)
}

func TestParseCSVCreditRow(t *testing.T) {
	rows, err := ParseCSV(context.Background(), "date,description,amount\n2025-01-08,Client payment,2500.00\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, models.DirectionCredit, rows[0].Direction)
	assert.Equal(t, 2500.00, rows[0].Amount)
}

func TestParseCSVHeaderSubstringMatch(t *testing.T) {
	// Column detection matches on substring, case-insensitive.
	content := "Posting Date,Transaction Description,Amount (USD)\n2025-02-01,Rent,-1800\n"
	rows, err := ParseCSV(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rent", rows[0].Description)
	assert.Equal(t, 1800.0, rows[0].Amount)
}

func TestParseCSVMissingColumn(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no amount", "date,description\n2025-01-05,Coffee\n"},
		{"no date", "description,amount\nCoffee,-4.50\n"},
		{"no description", "date,amount\n2025-01-05,-4.50\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(context.Background(), tt.header)
			require.ErrorIs(t, err, ErrMissingColumn)
		})
	}
}

func TestParseCSVBadAmountDefaultsToZero(t *testing.T) {
	rows, err := ParseCSV(context.Background(), "date,description,amount\n2025-01-05,Coffee,oops\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Amount)
	assert.Equal(t, models.DirectionCredit, rows[0].Direction)
}

func TestParseCSVBadDateFallsBackToNow(t *testing.T) {
	before := time.Now()
	rows, err := ParseCSV(context.Background(), "date,description,amount\nnot-a-date,Coffee,-4.50\n")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].DateFallback)
	assert.False(t, rows[0].Date.Before(before))
}

func TestParseCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParseCSV(ctx, "date,description,amount\n2025-01-05,Coffee,-4.50\n")
	require.ErrorIs(t, err, context.Canceled)
}
