package main

import (
	"fmt"
	"net/http"
	"os"

	"reconbooks/internal/database"
	"reconbooks/internal/handlers"
	"reconbooks/internal/importer"
	"reconbooks/internal/logger"
	"reconbooks/internal/reconcile"
	"reconbooks/internal/version"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("ReconBooks %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		os.Exit(0)
	}

	// Initialize logger first
	logger.Init()
	log := logger.Default()

	// Get database path from env or use default
	dbPath := os.Getenv("RECONBOOKS_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/reconbooks.db"
	}

	// Get port from env or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Open database
	db, err := database.Open(dbPath)
	if err != nil {
		log.Error("database_open_failed", "path", dbPath, "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	// Initialize schema
	if err := db.Init(); err != nil {
		log.Error("database_init_failed", "error", err.Error())
		os.Exit(1)
	}

	// Initialize services
	imp := importer.NewService(db)
	recon := reconcile.NewService(db, db)
	h := handlers.New(db, imp, recon)

	// Setup routes
	mux := http.NewServeMux()
	h.Routes(mux)

	addr := ":" + port
	log.Info("server_starting", "addr", addr, "db", dbPath)
	if err := http.ListenAndServe(addr, logger.HTTPMiddleware(mux)); err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}
