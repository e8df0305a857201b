package dto

import "time"

type AppleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

type FacebookLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

type EmailLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmailSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type UserResponse struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name,omitempty"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is the success envelope shared by every login endpoint.
type AuthResponse struct {
	OK   bool          `json:"ok"`
	User *UserResponse `json:"user,omitempty"`
}

// StatusResponse carries a bare ok flag (logout, anonymous /auth/me).
type StatusResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the failure envelope: a stable error code, nothing
// internal.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
