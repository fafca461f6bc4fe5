package reconcile

import (
	"context"
	"fmt"

	"reconbooks/internal/logger"
)

// AppliedMatch records one pairing applied during an auto-match run.
type AppliedMatch struct {
	TransactionID int64
	BookType      string
	BookID        int64
	Confidence    int
	Reason        string
}

// AutoMatchResult summarizes one auto-match run.
type AutoMatchResult struct {
	MatchedCount   int
	TotalProcessed int
	Matches        []AppliedMatch
}

// RunAutoMatching scores every pending bank transaction against the book of
// record and applies the best match when its confidence reaches
// AutoMatchThreshold. Sub-threshold transactions stay pending; there is no
// tentative state. Runs are serialized, and re-running after new imports only
// touches transactions that are still pending.
func (s *Service) RunAutoMatching(ctx context.Context) (*AutoMatchResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	pending, err := s.ledger.GetUnmatchedTransactions()
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

	log := logger.FromContext(ctx)
	result := &AutoMatchResult{TotalProcessed: len(pending)}

	for _, txn := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		best := FindMatch(txn, entries, invoices)
		if best == nil || best.Confidence < AutoMatchThreshold {
			continue
		}

		ok, err := s.ledger.MatchTransaction(txn.ID, best.BookType, best.BookID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Transaction disappeared between fetch and match.
			log.Warn("automatch_stale_transaction", "transaction_id", txn.ID)
			continue
		}

		result.MatchedCount++
		result.Matches = append(result.Matches, AppliedMatch{
			TransactionID: txn.ID,
			BookType:      best.BookType,
			BookID:        best.BookID,
			Confidence:    best.Confidence,
			Reason:        best.Reason,
		})
	}

	log.Info("automatch_completed",
		"processed", result.TotalProcessed,
		"matched", result.MatchedCount,
	)
	return result, nil
}
