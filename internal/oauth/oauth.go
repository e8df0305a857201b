// Package oauth verifies third-party bearer credentials and maps them to a
// provider-neutral identity. Every verifier fails closed: a network error,
// non-success status, missing field, or claim mismatch is a rejection.
package oauth

import (
	"errors"
	"net/http"
	"time"
)

// Identity is a verified claim that provider Provider knows this person as
// subject ProviderID. Profile fields are optional.
type Identity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	Picture    string
}

var (
	// ErrInvalidToken marks a credential the provider definitively rejected.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUpstream marks a provider that could not be reached or answered
	// with an unexpected failure.
	ErrUpstream = errors.New("identity provider unavailable")
)

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}
