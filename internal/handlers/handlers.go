package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"reconbooks/internal/database"
	"reconbooks/internal/importer"
	"reconbooks/internal/logger"
	"reconbooks/internal/parser"
	"reconbooks/internal/reconcile"
)

type Handler struct {
	db    *database.DB
	imp   *importer.Service
	recon *reconcile.Service
}

func New(db *database.DB, imp *importer.Service, recon *reconcile.Service) *Handler {
	return &Handler{
		db:    db,
		imp:   imp,
		recon: recon,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		l := logger.FromContext(r.Context())
		l.Error("json_encode_error", "error", err.Error())
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, parser.ErrMissingColumn),
		errors.Is(err, parser.ErrUnknownFormat),
		errors.Is(err, importer.ErrEmptyImport),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, importer.ErrFileTooLarge):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		l.Error("handler_error", "path", r.URL.Path, "error", err.Error())
	}
	h.writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

// pathID parses the {id} path segment
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// Routes registers all API routes on the mux
func (h *Handler) Routes(mux *http.ServeMux) {
	// Accounts
	mux.HandleFunc("GET /api/accounts", h.AccountsList)
	mux.HandleFunc("POST /api/accounts", h.AccountCreate)
	mux.HandleFunc("GET /api/accounts/{id}", h.AccountGet)
	mux.HandleFunc("PATCH /api/accounts/{id}", h.AccountUpdate)
	mux.HandleFunc("DELETE /api/accounts/{id}", h.AccountDelete)
	mux.HandleFunc("POST /api/accounts/{id}/primary", h.AccountSetPrimary)

	// Import
	mux.HandleFunc("POST /api/statements/validate", h.StatementValidate)
	mux.HandleFunc("POST /api/accounts/{id}/import", h.StatementImport)

	// Matching
	mux.HandleFunc("POST /api/automatch", h.AutoMatch)
	mux.HandleFunc("GET /api/transactions/{id}/recommendations", h.TransactionRecommendations)
	mux.HandleFunc("POST /api/transactions/{id}/match", h.TransactionMatch)
	mux.HandleFunc("POST /api/transactions/{id}/unmatch", h.TransactionUnmatch)

	// Reconciliation
	mux.HandleFunc("GET /api/statements/{id}/summary", h.StatementSummary)
	mux.HandleFunc("GET /api/statements/{id}/items", h.StatementItems)
	mux.HandleFunc("POST /api/statements/{id}/reconcile", h.StatementReconcile)
	mux.HandleFunc("GET /api/accounts/{id}/history", h.AccountHistory)
	mux.HandleFunc("GET /api/accounts/{id}/report", h.AccountReport)
}
