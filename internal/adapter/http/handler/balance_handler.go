package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/usecase"
)

// BalanceService serves authorized balance reads.
type BalanceService interface {
	GetBalance(ctx context.Context, accountID, userID string) (*usecase.BalanceResult, error)
}

// BalanceHandler handles balance requests.
type BalanceHandler struct {
	balances BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balances BalanceService) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// Get returns the balance of an account the caller owns.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	result, err := h.balances.GetBalance(r.Context(), accountID, userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromResult(result))
}
