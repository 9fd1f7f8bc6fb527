package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Ryan-Dia/friendly-anon-pulse/internal/middleware"
	apperrors "github.com/Ryan-Dia/friendly-anon-pulse/pkg/errors"
)

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError normalizes err into the error envelope. The request ID comes
// from the RequestID middleware when present.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.FromError(err)

	response := &apperrors.ErrorResponse{}
	response.Error.Type = appErr.Type
	response.Error.Message = appErr.Message
	response.Error.Details = appErr.Details
	response.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if requestID, ok := r.Context().Value(middleware.RequestIDContextKey).(string); ok {
		response.Error.RequestID = requestID
	}

	respondJSON(w, appErr.StatusCode, response)
}

// identityOr401 pulls the authenticated identity or writes a 401
func identityOr401(w http.ResponseWriter, r *http.Request) (accountID, profileID string, ok bool) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		respondError(w, r, apperrors.NewAuthenticationError("Authentication required"))
		return "", "", false
	}
	return identity.AccountID, identity.ProfileID, true
}
