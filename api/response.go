package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/etnz/satstack"
	"go.uber.org/zap"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// InvalidTransaction reports a transaction the computation skipped.
type InvalidTransaction struct {
	TransactionID string `json:"transactionId"`
	Error         string `json:"error"`
}

// invalidTransactions lists the validation errors joined in err.
func invalidTransactions(err error) []InvalidTransaction {
	var res []InvalidTransaction
	for _, v := range satstack.ValidationErrors(err) {
		res = append(res, InvalidTransaction{TransactionID: v.TxID, Error: v.Err.Error()})
	}
	return res
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(log *zap.SugaredLogger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Errorw("failed to encode JSON", "error", err)
		}
	}
}

// respondError sends an error response with the given status code.
func respondError(log *zap.SugaredLogger, w http.ResponseWriter, status int, message string, details any) {
	respondJSON(log, w, status, ErrorResponse{Error: message, Details: details})
}

// respondStoreError maps storage errors to their status code.
func respondStoreError(log *zap.SugaredLogger, w http.ResponseWriter, message string, err error) {
	var verr *satstack.ValidationError
	switch {
	case errors.Is(err, satstack.ErrTransactionNotFound):
		respondError(log, w, http.StatusNotFound, satstack.ErrTransactionNotFound.Error(), err.Error())
	case errors.As(err, &verr):
		respondError(log, w, http.StatusBadRequest, "invalid transaction", InvalidTransaction{
			TransactionID: verr.TxID,
			Error:         verr.Err.Error(),
		})
	default:
		log.Errorw(message, "error", err)
		respondError(log, w, http.StatusInternalServerError, message, err.Error())
	}
}
