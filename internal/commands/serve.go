package commands

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"reconbooks/internal/handlers"
	"reconbooks/internal/importer"
	"reconbooks/internal/logger"
	"reconbooks/internal/reconcile"
)

func newServeCommand(dbPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reconciliation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init()
			log := logger.Default()

			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			imp := importer.NewService(db)
			recon := reconcile.NewService(db, db)
			h := handlers.New(db, imp, recon)

			mux := http.NewServeMux()
			h.Routes(mux)

			addr := ":" + port
			log.Info("server_starting", "addr", addr, "db", *dbPath)
			return http.ListenAndServe(addr, logger.HTTPMiddleware(mux))
		},
	}

	cmd.Flags().StringVar(&port, "port", "8080", "port to listen on")
	return cmd
}

func newSeedCommand(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo account and sample book records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Seed(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database seeded")
			return nil
		},
	}
}
