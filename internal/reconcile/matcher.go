// Package reconcile pairs bank transactions with book records and derives
// per-statement reconciliation state.
package reconcile

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"reconbooks/internal/models"
)

// Confidence levels derived from the number of matching signals. The scale is
// deliberately non-linear: compound matches are worth more than the sum of
// their parts.
const (
	ConfidenceNone   = 0
	ConfidenceLow    = 1 // one signal
	ConfidenceMedium = 3 // two signals
	ConfidenceHigh   = 5 // all three signals
)

// AutoMatchThreshold is the minimum confidence the runner applies without
// human confirmation.
const AutoMatchThreshold = ConfidenceMedium

// BookSource is the read-only book of record the matcher scores against.
type BookSource interface {
	ListJournalEntries() ([]models.JournalEntry, error)
	ListInvoices() ([]models.Invoice, error)
}

// Ledger is the slice of the bank ledger store the reconciliation service
// reads and mutates. All mutation goes through these store operations.
type Ledger interface {
	GetBankAccount(id int64) (*models.BankAccount, error)
	GetBankStatement(id int64) (*models.BankStatement, error)
	ListBankStatementsByAccount(accountID int64) ([]models.BankStatement, error)
	MarkStatementReconciled(id int64) error
	GetBankTransaction(id int64) (*models.BankTransaction, error)
	ListBankTransactionsByStatement(statementID int64) ([]models.BankTransaction, error)
	GetUnmatchedTransactions() ([]models.BankTransaction, error)
	MatchTransaction(txnID int64, bookType string, bookID int64) (bool, error)
}

// Service wires the matcher and calculator to the ledger store and books.
type Service struct {
	ledger Ledger
	books  BookSource

	// runMu serializes auto-match runs so two batches cannot double-match
	// the same pending transaction.
	runMu sync.Mutex
}

func NewService(ledger Ledger, books BookSource) *Service {
	return &Service{ledger: ledger, books: books}
}

// Match is a scored pairing of a bank transaction with one book record.
type Match struct {
	BookType   string
	BookID     int64
	Confidence int
	Reason     string
}

// amountsMatch applies the fixed 0.01 currency-unit tolerance.
func amountsMatch(a, b float64) bool {
	return models.WithinTolerance(a, b)
}

// datesMatch allows up to two days of posting-date skew between bank and
// book records. Dates that fail to parse never match.
func datesMatch(a, b string) bool {
	ta, err := time.Parse("2006-01-02", a)
	if err != nil {
		return false
	}
	tb, err := time.Parse("2006-01-02", b)
	if err != nil {
		return false
	}
	days := math.Ceil(math.Abs(ta.Sub(tb).Hours() / 24))
	return days <= 2
}

var nonAlnum = func(r rune) bool {
	return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
}

// descriptionsMatch compares case-insensitively, then again with all
// whitespace stripped, then with all non-alphanumeric characters stripped.
// Empty descriptions never match anything.
func descriptionsMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	stripSpace := func(s string) string {
		return strings.Join(strings.Fields(s), "")
	}
	if stripSpace(a) == stripSpace(b) {
		return true
	}
	strip := func(s string) string {
		var sb strings.Builder
		for _, r := range s {
			if !nonAlnum(r) {
				sb.WriteRune(r)
			}
		}
		return sb.String()
	}
	sa, sb := strip(a), strip(b)
	if sa == "" || sb == "" {
		return false
	}
	return sa == sb
}

// confidenceFor maps a signal count to a confidence level.
func confidenceFor(signals int) int {
	switch signals {
	case 1:
		return ConfidenceLow
	case 2:
		return ConfidenceMedium
	case 3:
		return ConfidenceHigh
	default:
		return ConfidenceNone
	}
}

// Score computes the three-signal confidence between a bank transaction and
// one candidate described by (description, amount, date).
func Score(txn models.BankTransaction, description string, amount float64, date string) (int, string) {
	var fired []string
	if amountsMatch(txn.Amount, amount) {
		fired = append(fired, "amount")
	}
	if datesMatch(txn.Date, date) {
		fired = append(fired, "date")
	}
	if descriptionsMatch(txn.Description, description) {
		fired = append(fired, "description")
	}
	if len(fired) == 0 {
		return ConfidenceNone, "no signals matched"
	}
	return confidenceFor(len(fired)), "matched on " + strings.Join(fired, ", ")
}

// FindMatch scores a bank transaction against every journal entry, and (for
// credit-direction transactions only) every invoice, returning the single
// best candidate or nil when nothing scores above zero. Journal entries are
// evaluated first, and ties keep the first candidate seen, so a tied invoice
// never displaces a tied journal entry.
func FindMatch(txn models.BankTransaction, entries []models.JournalEntry, invoices []models.Invoice) *Match {
	var best *Match

	consider := func(bookType string, bookID int64, description string, amount float64, date string) {
		confidence, reason := Score(txn, description, amount, date)
		if confidence == ConfidenceNone {
			return
		}
		if best == nil || confidence > best.Confidence {
			best = &Match{
				BookType:   bookType,
				BookID:     bookID,
				Confidence: confidence,
				Reason:     reason,
			}
		}
	}

	for _, e := range entries {
		consider(models.BookTypeJournalEntry, e.ID, e.Description, e.Amount, e.Date)
	}
	if txn.Direction == models.DirectionCredit {
		for _, inv := range invoices {
			consider(models.BookTypeInvoice, inv.ID, inv.InvoiceNumber, inv.Total, inv.MatchDate())
		}
	}
	return best
}

// Recommendation is one manual-review candidate for a bank transaction.
type Recommendation struct {
	BookType    string
	BookID      int64
	Description string
	Amount      float64
	Date        string
	Confidence  int
	Reason      string
}

// Recommendations returns every candidate scoring at least ConfidenceLow for
// the given bank transaction, sorted by confidence descending. The sort is
// stable, so equal-confidence candidates keep their evaluation order
// (journal entries before invoices).
func (s *Service) Recommendations(txnID int64) ([]Recommendation, error) {
	txn, err := s.ledger.GetBankTransaction(txnID)
	if err != nil {
		return nil, err
	}

	entries, err := s.books.ListJournalEntries()
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	invoices, err := s.books.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	var recs []Recommendation
	for _, e := range entries {
		confidence, reason := Score(*txn, e.Description, e.Amount, e.Date)
		if confidence >= ConfidenceLow {
			recs = append(recs, Recommendation{
				BookType:    models.BookTypeJournalEntry,
				BookID:      e.ID,
				Description: e.Description,
				Amount:      e.Amount,
				Date:        e.Date,
				Confidence:  confidence,
				Reason:      reason,
			})
		}
	}
	if txn.Direction == models.DirectionCredit {
		for _, inv := range invoices {
			confidence, reason := Score(*txn, inv.InvoiceNumber, inv.Total, inv.MatchDate())
			if confidence >= ConfidenceLow {
				recs = append(recs, Recommendation{
					BookType:    models.BookTypeInvoice,
					BookID:      inv.ID,
					Description: inv.InvoiceNumber,
					Amount:      inv.Total,
					Date:        inv.MatchDate(),
					Confidence:  confidence,
					Reason:      reason,
				})
			}
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
	return recs, nil
}
