package handlers

import (
	"encoding/json"
	"net/http"

	"reconbooks/internal/database"
	"reconbooks/internal/models"
)

func (h *Handler) AccountsList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.db.ListBankAccounts()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, accounts)
}

type accountCreateRequest struct {
	Name           string  `json:"name"`
	BankName       string  `json:"bank_name"`
	AccountNumber  string  `json:"account_number"`
	AccountType    string  `json:"account_type"`
	Currency       string  `json:"currency"`
	OpeningBalance float64 `json:"opening_balance"`
}

func (h *Handler) AccountCreate(w http.ResponseWriter, r *http.Request) {
	var req accountCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AccountType == "" {
		req.AccountType = models.AccountTypeChecking
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	account := models.BankAccount{
		Name:           req.Name,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		AccountType:    req.AccountType,
		Currency:       req.Currency,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		IsActive:       true,
	}
	id, err := h.db.CreateBankAccount(&account)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	created, err := h.db.GetBankAccount(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, created)
}

func (h *Handler) AccountGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	account, err := h.db.GetBankAccount(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, account)
}

type accountUpdateRequest struct {
	Name           *string  `json:"name"`
	BankName       *string  `json:"bank_name"`
	AccountNumber  *string  `json:"account_number"`
	AccountType    *string  `json:"account_type"`
	Currency       *string  `json:"currency"`
	OpeningBalance *float64 `json:"opening_balance"`
	CurrentBalance *float64 `json:"current_balance"`
	IsActive       *bool    `json:"is_active"`
}

// AccountUpdate applies a partial update; absent fields keep their values and
// the account id itself never changes.
func (h *Handler) AccountUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	var req accountUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	update := database.BankAccountUpdate{
		Name:           req.Name,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		AccountType:    req.AccountType,
		Currency:       req.Currency,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.CurrentBalance,
		IsActive:       req.IsActive,
	}
	if err := h.db.UpdateBankAccount(id, update); err != nil {
		h.writeError(w, r, err)
		return
	}

	account, err := h.db.GetBankAccount(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, account)
}

func (h *Handler) AccountDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	if err := h.db.DeleteBankAccount(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AccountSetPrimary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid account id", http.StatusBadRequest)
		return
	}
	if err := h.db.SetPrimaryBankAccount(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	account, err := h.db.GetBankAccount(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, account)
}
