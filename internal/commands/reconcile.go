package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reconbooks/internal/importer"
	"reconbooks/internal/parser"
	"reconbooks/internal/reconcile"
)

func newImportCommand(dbPath *string) *cobra.Command {
	var accountID int64
	var fileType string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a bank statement file (csv, qif or ofx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			format := fileType
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(path), ".")
			}
			format = strings.ToLower(format)

			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			imp := importer.NewService(db)
			if validation := imp.Validate(info.Name(), info.Size(), format); !validation.IsValid {
				return fmt.Errorf("validation failed: %s", strings.Join(validation.Errors, "; "))
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			result, err := imp.ImportStatement(cmd.Context(), accountID, parser.Format(format), string(content))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported statement %s (%d transactions, %s to %s)\n",
				result.Statement.StatementNumber, result.ImportedCount,
				result.Statement.StartDate, result.Statement.EndDate)
			if result.DateFallbacks > 0 {
				fmt.Fprintf(out, "warning: %d rows had unparsable dates and defaulted to today\n", result.DateFallbacks)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "bank account id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&fileType, "type", "", "file format override (csv, qif, ofx)")
	return cmd
}

func newAutoMatchCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "automatch",
		Short: "Match pending bank transactions against the books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			recon := reconcile.NewService(db, db)
			result, err := recon.RunAutoMatching(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "matched %d of %d pending transactions\n", result.MatchedCount, result.TotalProcessed)
			for _, m := range result.Matches {
				fmt.Fprintf(out, "  txn %d -> %s %d (confidence %d, %s)\n",
					m.TransactionID, m.BookType, m.BookID, m.Confidence, m.Reason)
			}
			return nil
		},
	}
}

func newReportCommand(dbPath *string) *cobra.Command {
	var accountID int64

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print an account's reconciliation report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			recon := reconcile.NewService(db, db)
			report, err := recon.Report(accountID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "account: %s\n", report.AccountName)
			fmt.Fprintf(out, "statements: %d (%d reconciled)\n", report.TotalStatements, report.ReconciledStatements)
			fmt.Fprintf(out, "transactions: %d (%d matched, %d unmatched)\n",
				report.TotalTransactions, report.MatchedTransactions, report.UnmatchedTransactions)
			for _, rec := range report.Recommendations {
				fmt.Fprintf(out, "  - %s\n", rec)
			}

			history, err := recon.History(accountID)
			if err != nil {
				return err
			}
			for _, entry := range history {
				fmt.Fprintf(out, "%s  %s  diff=%.2f  matched=%d/%d\n",
					entry.Statement.StatementNumber, entry.Statement.Status,
					entry.Summary.Difference, entry.Summary.MatchedCount,
					entry.Summary.TotalTransactions)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "bank account id (required)")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}
