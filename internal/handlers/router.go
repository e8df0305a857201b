package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ventyapp/venty-auth/internal/middleware"
)

// NewRouter wires the HTTP surface. The session middleware only guards
// /auth/me; every other endpoint is a login entry point.
func NewRouter(h *AuthHandler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/apple", h.Apple).Methods(http.MethodPost)
	auth.HandleFunc("/facebook", h.Facebook).Methods(http.MethodPost)
	auth.HandleFunc("/google", h.GoogleRedirect).Methods(http.MethodGet)
	auth.HandleFunc("/google", h.GoogleToken).Methods(http.MethodPost)
	auth.HandleFunc("/email/login", h.EmailLogin).Methods(http.MethodPost)
	auth.HandleFunc("/email/signup", h.EmailSignup).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)

	session := middleware.Session(h.sessions, h.users, SessionCookieName)
	auth.Handle("/me", session(http.HandlerFunc(h.Me))).Methods(http.MethodGet)

	return r
}
