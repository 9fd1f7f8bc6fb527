package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/service"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
)

// VotingHandler serves vote submission and vote queries
type VotingHandler struct {
	votingService *service.VotingService
}

func NewVotingHandler(votingService *service.VotingService) *VotingHandler {
	return &VotingHandler{votingService: votingService}
}

// SubmitVote handles POST /api/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	_, profileID, ok := identityOr401(w, r)
	if !ok {
		return
	}

	var req domain.CreateVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("invalid request body", nil))
		return
	}

	vote, err := h.votingService.CreateVote(r.Context(), profileID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, vote)
}

// MyStatusToday handles GET /api/votes/me/today
func (h *VotingHandler) MyStatusToday(w http.ResponseWriter, r *http.Request) {
	_, profileID, ok := identityOr401(w, r)
	if !ok {
		return
	}

	voted, err := h.votingService.HasVotedToday(r.Context(), profileID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"has_voted": voted})
}

// VotesForUser handles GET /api/votes/user/{id}: votes a member has received.
func (h *VotingHandler) VotesForUser(w http.ResponseWriter, r *http.Request) {
	candidateID := chi.URLParam(r, "id")
	if candidateID == "" {
		respondError(w, r, apperrors.NewValidationError("user id is required", nil))
		return
	}

	votes, err := h.votingService.GetVotesForUser(r.Context(), candidateID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, votes)
}

// TodayVotes handles GET /api/votes/today (admin statistics)
func (h *VotingHandler) TodayVotes(w http.ResponseWriter, r *http.Request) {
	votes, err := h.votingService.GetTodayVotes(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, votes)
}
