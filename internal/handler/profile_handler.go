package handler

import (
	"net/http"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/service"
)

// ProfileHandler serves the community roster
type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetMe handles GET /api/profiles/me. An authenticated account without a
// profile gets a null body, not an error.
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, _, ok := identityOr401(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), accountID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// List handles GET /api/profiles
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.GetAllProfiles(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profiles)
}

// Candidates handles GET /api/profiles/candidates: the roster minus the caller.
func (h *ProfileHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	_, profileID, ok := identityOr401(w, r)
	if !ok {
		return
	}

	candidates, err := h.profileService.Candidates(r.Context(), profileID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, candidates)
}
