package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/service"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
)

// BoardHandler serves the suggestion board
type BoardHandler struct {
	boardService *service.BoardService
}

func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: boardService}
}

// List handles GET /api/board with an optional ?type= filter
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	var postType *domain.BoardPostType
	if raw := r.URL.Query().Get("type"); raw != "" {
		if !domain.ValidBoardPostType(raw) {
			respondError(w, r, apperrors.NewValidationError("type must be question or improvement", nil))
			return
		}
		t := domain.BoardPostType(raw)
		postType = &t
	}

	posts, err := h.boardService.GetPosts(r.Context(), postType)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, posts)
}

// Create handles POST /api/board
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, profileID, ok := identityOr401(w, r)
	if !ok {
		return
	}

	var req domain.CreateBoardPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("invalid request body", nil))
		return
	}

	post, err := h.boardService.CreatePost(r.Context(), profileID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, post)
}
