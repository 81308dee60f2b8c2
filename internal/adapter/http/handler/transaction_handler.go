package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// TransactionService serves authorized transaction history reads.
type TransactionService interface {
	ListTransactions(ctx context.Context, accountID, userID string, filter domain.TransactionFilter) (*usecase.TransactionList, error)
}

// TransactionHandler handles transaction history requests.
type TransactionHandler struct {
	transactions TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// List returns a filtered page of an account's transaction history.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	filter := dto.ParseTransactionFilter(r)

	list, err := h.transactions.ListTransactions(r.Context(), accountID, userID, filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionListFromResult(list))
}
