package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ventyapp/venty-auth/internal/config"
	"github.com/ventyapp/venty-auth/internal/middleware"
	"github.com/ventyapp/venty-auth/internal/models"
	"github.com/ventyapp/venty-auth/internal/oauth"
	"github.com/ventyapp/venty-auth/internal/services"
	"github.com/ventyapp/venty-auth/pkg/dto"
)

const providerTimeout = 30 * time.Second

type AuthHandler struct {
	cfg      *config.Config
	users    UserServiceInterface
	sessions SessionServiceInterface
	google   GoogleVerifierInterface
	apple    AppleVerifierInterface
	facebook FacebookVerifierInterface
	cookies  CookiePolicy
}

func NewAuthHandler(
	cfg *config.Config,
	users UserServiceInterface,
	sessions SessionServiceInterface,
	google GoogleVerifierInterface,
	apple AppleVerifierInterface,
	facebook FacebookVerifierInterface,
) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		users:    users,
		sessions: sessions,
		google:   google,
		apple:    apple,
		facebook: facebook,
		cookies:  NewCookiePolicy(cfg.IsProduction()),
	}
}

// Apple verifies a Sign in with Apple ID token supplied by the client.
func (h *AuthHandler) Apple(w http.ResponseWriter, r *http.Request) {
	var req dto.AppleLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		respondError(w, http.StatusBadRequest, codeMissingIDToken)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	ident, err := h.apple.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		slog.Info("apple login rejected", "error", err)
		respondError(w, http.StatusUnauthorized, codeInvalidToken)
		return
	}

	h.completeLogin(w, r, ident)
}

// GoogleToken verifies a Google ID token supplied directly by the client.
func (h *AuthHandler) GoogleToken(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		respondError(w, http.StatusBadRequest, codeMissingIDToken)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	ident, err := h.google.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		slog.Info("google login rejected", "error", err)
		respondError(w, http.StatusUnauthorized, codeInvalidToken)
		return
	}

	h.completeLogin(w, r, ident)
}

// GoogleRedirect drives the authorization-code dance. Without a code it
// sends the user-agent to Google's consent screen, carrying the state
// through; with a code it exchanges, verifies, signs the user in, and
// redirects to the state value when that is a safe relative path.
func (h *AuthHandler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if !h.google.Configured() {
		respondError(w, http.StatusInternalServerError, codeGoogleNotConfigured)
		return
	}

	q := r.URL.Query()
	state := q.Get("state")
	if state == "" {
		state = "/"
	}

	code := q.Get("code")
	if code == "" {
		http.Redirect(w, r, h.google.ConsentURL(state), http.StatusFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	ident, err := h.google.ExchangeCode(ctx, code)
	if err != nil {
		slog.Info("google code exchange rejected", "error", err)
		respondError(w, http.StatusUnauthorized, codeInvalidToken)
		return
	}

	user, err := h.users.FindOrCreateFromIdentity(ctx, ident)
	if err != nil {
		slog.Error("failed to resolve google identity", "error", err)
		respondError(w, http.StatusInternalServerError, codeServerError)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		respondError(w, http.StatusInternalServerError, codeServerError)
		return
	}
	h.cookies.Set(w, r, token, h.sessions.Expiry())

	target := strings.TrimSuffix(h.cfg.BaseURL, "/") + safeRedirectPath(state)
	http.Redirect(w, r, target, http.StatusFound)
}

// Facebook verifies a Graph API access token supplied by the client.
func (h *AuthHandler) Facebook(w http.ResponseWriter, r *http.Request) {
	var req dto.FacebookLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AccessToken == "" {
		respondError(w, http.StatusBadRequest, codeMissingAccessToken)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()

	ident, err := h.facebook.VerifyAccessToken(ctx, req.AccessToken)
	if errors.Is(err, oauth.ErrUpstream) {
		slog.Error("facebook unreachable", "error", err)
		respondError(w, http.StatusInternalServerError, codeUpstreamError)
		return
	}
	if err != nil {
		slog.Info("facebook login rejected", "error", err)
		respondError(w, http.StatusUnauthorized, codeInvalidToken)
		return
	}

	h.completeLogin(w, r, ident)
}

func (h *AuthHandler) EmailSignup(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailSignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, codeMissingCredentials)
		return
	}

	user, err := h.users.SignupWithPassword(r.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, services.ErrEmailExists) {
		respondError(w, http.StatusConflict, codeEmailExists)
		return
	}
	if err != nil {
		slog.Error("signup failed", "error", err)
		respondError(w, http.StatusInternalServerError, codeServerError)
		return
	}

	h.issueSession(w, r, user)
}

func (h *AuthHandler) EmailLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.EmailLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, codeMissingCredentials)
		return
	}

	user, err := h.users.LoginWithPassword(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, codeInvalidLogin)
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		respondError(w, http.StatusInternalServerError, codeServerError)
		return
	}

	h.issueSession(w, r, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w, r)
	respondJSON(w, http.StatusOK, dto.StatusResponse{OK: true})
}

// Me reports the current session's user. A missing cookie, expired or
// tampered token, and a deleted user all get the same anonymous answer;
// the client cannot tell them apart.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	if user == nil {
		respondJSON(w, http.StatusOK, dto.StatusResponse{OK: false})
		return
	}
	respondJSON(w, http.StatusOK, dto.AuthResponse{OK: true, User: userResponse(user)})
}

// completeLogin resolves a verified identity to a user and starts a
// session for it.
func (h *AuthHandler) completeLogin(w http.ResponseWriter, r *http.Request, ident *oauth.Identity) {
	user, err := h.users.FindOrCreateFromIdentity(r.Context(), ident)
	if err != nil {
		slog.Error("failed to resolve identity", "provider", ident.Provider, "error", err)
		respondError(w, http.StatusInternalServerError, codeServerError)
		return
	}
	h.issueSession(w, r, user)
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		slog.Error("failed to issue session", "error", err)
		respondError(w, http.StatusInternalServerError, codeServerError)
		return
	}
	h.cookies.Set(w, r, token, h.sessions.Expiry())
	respondJSON(w, http.StatusOK, dto.AuthResponse{OK: true, User: userResponse(user)})
}
