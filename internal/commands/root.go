// Package commands builds the reconbooks CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"reconbooks/internal/database"
	"reconbooks/internal/version"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dbPath string

	rootCmd := &cobra.Command{
		Use:     "reconbooks",
		Short:   "Bank statement import and reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.GitCommit, version.BuildTime),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/reconbooks.db", "path to the sqlite database")

	rootCmd.AddCommand(newServeCommand(&dbPath))
	rootCmd.AddCommand(newSeedCommand(&dbPath))
	rootCmd.AddCommand(newImportCommand(&dbPath))
	rootCmd.AddCommand(newAutoMatchCommand(&dbPath))
	rootCmd.AddCommand(newReportCommand(&dbPath))

	return rootCmd
}

// openDB opens and initializes the store for a command run.
func openDB(dbPath string) (*database.DB, error) {
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
