package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/gobank/internal/adapter/http/dto"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// ProfileService reads and updates the caller's profile.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, input usecase.UpdateProfileInput) (*domain.UserProfile, error)
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	profiles ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get returns the caller's profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get profile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromDomain(profile))
}

// Update applies caller-editable changes to the profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), req.ToUseCaseInput(userID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update profile", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileFromDomain(profile))
}
