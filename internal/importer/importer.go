// Package importer turns parsed statement files into bank ledger records.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"reconbooks/internal/logger"
	"reconbooks/internal/models"
	"reconbooks/internal/parser"
)

// MaxFileSize is the pre-parse ceiling on statement files.
const MaxFileSize = 10 << 20 // 10 MiB

var (
	// ErrEmptyImport is returned when a statement file parses to zero rows.
	ErrEmptyImport = errors.New("no transactions found in file")
	// ErrUnsupportedFormat is returned by validation for unknown extensions.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileTooLarge is returned by validation for files over MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
)

// Ledger is the slice of the bank ledger store the importer writes to.
type Ledger interface {
	GetBankAccount(id int64) (*models.BankAccount, error)
	CreateBankStatement(s *models.BankStatement) (int64, error)
	CreateBankTransaction(t *models.BankTransaction) (int64, error)
}

// Service orchestrates statement imports. Writes to any one account are
// serialized with a per-account lock so two concurrent imports cannot
// interleave statement and transaction creation.
type Service struct {
	ledger Ledger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewService(ledger Ledger) *Service {
	return &Service{
		ledger: ledger,
		locks:  make(map[int64]*sync.Mutex),
	}
}

func (s *Service) accountLock(accountID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[accountID] = l
	}
	return l
}

// Validate checks a statement file before any parsing: the extension must be
// a supported format and the file must not exceed MaxFileSize. When fileType
// is empty, the format is taken from the filename extension.
func (s *Service) Validate(filename string, size int64, fileType string) models.ValidationResult {
	var result models.ValidationResult

	format := fileType
	if format == "" {
		if i := strings.LastIndex(filename, "."); i >= 0 {
			format = filename[i+1:]
		}
	}
	switch parser.Format(strings.ToLower(format)) {
	case parser.FormatCSV, parser.FormatQIF, parser.FormatOFX:
	default:
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s: %q (supported: csv, qif, ofx)", ErrUnsupportedFormat, format))
	}

	if size > MaxFileSize {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s: %d bytes (limit %d)", ErrFileTooLarge, size, MaxFileSize))
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// ImportStatement parses content and creates one statement plus one
// transaction per parsed row. The statement's date range spans the parsed
// rows and its closing balance snapshots the account's current balance.
func (s *Service) ImportStatement(ctx context.Context, accountID int64, fileType parser.Format, content string) (*models.ImportResult, error) {
	account, err := s.ledger.GetBankAccount(accountID)
	if err != nil {
		return nil, err
	}

	rows, err := parser.Parse(ctx, fileType, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s statement: %w", fileType, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}

	lock := s.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	start, end := rows[0].Date, rows[0].Date
	fallbacks := 0
	for _, row := range rows {
		if row.Date.Before(start) {
			start = row.Date
		}
		if row.Date.After(end) {
			end = row.Date
		}
		if row.DateFallback {
			fallbacks++
		}
	}

	now := time.Now()
	statement := models.BankStatement{
		AccountID:       accountID,
		StatementNumber: fmt.Sprintf("STMT-%d-%s", accountID, now.Format("20060102150405")),
		ImportID:        uuid.NewString(),
		StartDate:       start.Format("2006-01-02"),
		EndDate:         end.Format("2006-01-02"),
		ClosingBalance:  account.CurrentBalance,
		Currency:        account.Currency,
		Status:          models.StatementStatusImported,
		ImportedAt:      now,
	}
	statementID, err := s.ledger.CreateBankStatement(&statement)
	if err != nil {
		return nil, err
	}
	statement.ID = statementID

	transactions := make([]models.BankTransaction, 0, len(rows))
	for _, row := range rows {
		txn := models.BankTransaction{
			StatementID: statementID,
			Date:        row.Date.Format("2006-01-02"),
			Description: row.Description,
			Amount:      row.Amount,
			Direction:   row.Direction,
			Status:      models.TxnStatusPending,
		}
		id, err := s.ledger.CreateBankTransaction(&txn)
		if err != nil {
			return nil, err
		}
		txn.ID = id
		transactions = append(transactions, txn)
	}

	logger.FromContext(ctx).Info("statement_imported",
		"account_id", accountID,
		"statement_id", statementID,
		"import_id", statement.ImportID,
		"format", string(fileType),
		"transactions", len(transactions),
		"date_fallbacks", fallbacks,
	)

	return &models.ImportResult{
		Statement:     statement,
		Transactions:  transactions,
		ImportedCount: len(transactions),
		DateFallbacks: fallbacks,
	}, nil
}
