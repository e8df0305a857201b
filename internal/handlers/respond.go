package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ventyapp/venty-auth/internal/models"
	"github.com/ventyapp/venty-auth/pkg/dto"
)

// Stable error codes surfaced to clients. Nothing upstream ever leaks
// through these.
const (
	codeMissingIDToken      = "missing_id_token"
	codeMissingAccessToken  = "missing_access_token"
	codeMissingCredentials  = "missing_credentials"
	codeInvalidToken        = "invalid_token"
	codeInvalidLogin        = "invalid_login"
	codeEmailExists         = "email_exists"
	codeInvalidBody         = "invalid_body"
	codeUpstreamError       = "upstream_error"
	codeServerError         = "server_error"
	codeGoogleNotConfigured = "google_not_configured"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code string) {
	respondJSON(w, status, dto.ErrorResponse{OK: false, Error: code})
}

func userResponse(u *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		UserID:    u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		CreatedAt: u.CreatedAt,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidBody)
		return false
	}
	return true
}
