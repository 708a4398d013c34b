package api

import (
	"net/http"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/price"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the API endpoints.
type Handler struct {
	repo   Repository
	oracle price.Oracle
	log    *zap.SugaredLogger
}

// Health reports whether the storage is reachable.
//
// Endpoint: GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.HealthCheck(r.Context()); err != nil {
		respondError(h.log, w, http.StatusServiceUnavailable, "database unavailable", err.Error())
		return
	}
	respondJSON(h.log, w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTransactions returns all the transactions in ledger order.
//
// Endpoint: GET /api/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.repo.List(r.Context())
	if err != nil {
		respondStoreError(h.log, w, "failed to retrieve transactions", err)
		return
	}
	if txs == nil {
		txs = []satstack.Transaction{}
	}
	respondJSON(h.log, w, http.StatusOK, txs)
}

// GetTransaction returns a single transaction.
//
// Endpoint: GET /api/transactions/{id}
// Error: 404 Not Found if the transaction does not exist
func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(h.log, w, "failed to retrieve transaction", err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, tx)
}

// CreateTransaction appends a transaction to the ledger.
//
// Endpoint: POST /api/transactions
// Request Body: TransactionRequest
// Response: 201 Created with the stored transaction
// Error: 400 Bad Request if validation fails or the id already exists
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.decodeTransaction(w, r)
	if !ok {
		return
	}
	tx, err := h.repo.Add(r.Context(), tx)
	if err != nil {
		respondStoreError(h.log, w, "failed to create transaction", err)
		return
	}
	respondJSON(h.log, w, http.StatusCreated, tx)
}

// UpdateTransaction replaces a transaction, keeping its ledger position.
//
// Endpoint: PUT /api/transactions/{id}
// Request Body: TransactionRequest, its id is ignored
// Error: 404 Not Found if the transaction does not exist
func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := h.decodeTransaction(w, r)
	if !ok {
		return
	}
	tx.ID = chi.URLParam(r, "id")
	if err := h.repo.Update(r.Context(), tx); err != nil {
		respondStoreError(h.log, w, "failed to update transaction", err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, tx)
}

// DeleteTransaction removes a transaction.
//
// Endpoint: DELETE /api/transactions/{id}
// Response: 204 No Content
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondStoreError(h.log, w, "failed to delete transaction", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeTransaction parses and validates the request body. On failure the
// response has been written.
func (h *Handler) decodeTransaction(w http.ResponseWriter, r *http.Request) (satstack.Transaction, bool) {
	req, err := parseJSON[TransactionRequest](r)
	if err != nil {
		respondError(h.log, w, http.StatusBadRequest, "invalid request body", err.Error())
		return satstack.Transaction{}, false
	}
	if err := validate.Struct(req); err != nil {
		respondError(h.log, w, http.StatusBadRequest, "validation failed", map[string]any{
			"transactionId": req.ID,
			"fields":        fieldErrors(err),
		})
		return satstack.Transaction{}, false
	}
	tx, err := req.Transaction()
	if err != nil {
		respondError(h.log, w, http.StatusBadRequest, "validation failed", InvalidTransaction{
			TransactionID: req.ID,
			Error:         err.Error(),
		})
		return satstack.Transaction{}, false
	}
	return tx, true
}

// GetSettings returns the stored tax configuration.
//
// Endpoint: GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.repo.Settings(r.Context())
	if err != nil {
		respondStoreError(h.log, w, "failed to retrieve settings", err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, cfg)
}

// UpdateSettings stores a new tax configuration.
//
// Endpoint: PUT /api/settings
// Request Body: SettingsRequest
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[SettingsRequest](r)
	if err != nil {
		respondError(h.log, w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(h.log, w, http.StatusBadRequest, "validation failed", fieldErrors(err))
		return
	}
	cfg, err := req.TaxConfiguration()
	if err != nil {
		respondError(h.log, w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	if err := h.repo.SaveSettings(r.Context(), cfg); err != nil {
		respondStoreError(h.log, w, "failed to save settings", err)
		return
	}
	respondJSON(h.log, w, http.StatusOK, cfg)
}
