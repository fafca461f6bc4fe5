package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"reconbooks/internal/importer"
	"reconbooks/internal/parser"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 1 << 20

// StatementValidate runs pre-import validation on an uploaded file without
// parsing it: extension whitelist and size ceiling.
func (h *Handler) StatementValidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	result := h.imp.Validate(header.Filename, header.Size, r.FormValue("file_type"))
	h.writeJSON(w, r, http.StatusOK, result)
}

// StatementImport validates then imports an uploaded statement file for the
// account in the path. file_type defaults to the filename extension.
func (h *Handler) StatementImport(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileType := r.FormValue("file_type")
	if fileType == "" {
		if i := strings.LastIndex(header.Filename, "."); i >= 0 {
			fileType = header.Filename[i+1:]
		}
	}
	fileType = strings.ToLower(fileType)

	// Validation runs before any bytes are parsed.
	if validation := h.imp.Validate(header.Filename, header.Size, fileType); !validation.IsValid {
		h.writeJSON(w, r, http.StatusUnprocessableEntity, validation)
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, importer.MaxFileSize+1))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.imp.ImportStatement(r.Context(), accountID, parser.Format(fileType), string(content))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, result)
}

// AutoMatch runs one batch auto-match pass over all pending transactions.
func (h *Handler) AutoMatch(w http.ResponseWriter, r *http.Request) {
	result, err := h.recon.RunAutoMatching(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

func (h *Handler) TransactionRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}
	recs, err := h.recon.Recommendations(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, recs)
}

type matchRequest struct {
	BookType string `json:"book_type"`
	BookID   int64  `json:"book_id"`
}

type matchResponse struct {
	Matched bool `json:"matched"`
}

// TransactionMatch applies a manual match chosen from the recommendations.
func (h *Handler) TransactionMatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	ok, err := h.db.MatchTransaction(id, req.BookType, req.BookID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, matchResponse{Matched: ok})
}

func (h *Handler) TransactionUnmatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}
	ok, err := h.db.UnmatchTransaction(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, matchResponse{Matched: ok})
}

func (h *Handler) StatementSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid statement id", http.StatusBadRequest)
		return
	}
	summary, err := h.recon.Summary(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, summary)
}

func (h *Handler) StatementItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid statement id", http.StatusBadRequest)
		return
	}
	matched, unmatched, err := h.recon.Items(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"matched":   matched,
		"unmatched": unmatched,
	})
}

type reconcileResponse struct {
	Reconciled bool `json:"reconciled"`
}

func (h *Handler) StatementReconcile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid statement id", http.StatusBadRequest)
		return
	}
	ok, err := h.recon.MarkReconciled(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, reconcileResponse{Reconciled: ok})
}

func (h *Handler) AccountHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	history, err := h.recon.History(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, history)
}

func (h *Handler) AccountReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	report, err := h.recon.Report(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, report)
}
