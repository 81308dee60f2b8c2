package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/usecase"
)

// TransferService runs the transfer pipeline.
type TransferService interface {
	SubmitTransfer(ctx context.Context, input usecase.SubmitTransferInput) (*usecase.TransferResult, error)
}

// TransferHandler handles transfer submissions.
type TransferHandler struct {
	transfers TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transfers TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// Create submits a new transfer on behalf of the caller.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transfers.SubmitTransfer(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to submit transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromResult(result))
}
