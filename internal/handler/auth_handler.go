package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/domain"
	"github.com/Ryan-Dia/friendly-anon-pulse/internal/service"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
)

// AuthHandler handles sign-up, sign-in and sign-out
type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("invalid request body", nil))
		return
	}

	response, err := h.authService.SignUp(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, response)
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req domain.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.NewValidationError("invalid request body", nil))
		return
	}

	response, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// SignOut handles POST /api/auth/signout. Sessions are stateless tokens, so
// the client just drops the token.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}
