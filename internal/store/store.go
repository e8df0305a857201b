// Package store persists canonical user records. Two implementations
// exist: a single-file JSON store and a Postgres store with the same
// contract, selected at startup.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/ventyapp/venty-auth/internal/models"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists is returned when a password credential already exists
	// for the email being registered.
	ErrEmailExists = errors.New("email already registered")
)

// Identity is the canonical shape consumed by UpsertFromIdentity: a
// verified external identity plus optional profile fields.
type Identity struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	Picture    string
}

type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByEmail returns the first user recorded with the email. Emails
	// are not unique across users; first match wins.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpsertFromIdentity resolves an identity to a user: match by provider
	// link, else by email when the identity carries one; append the
	// missing link and backfill empty profile fields on a match, create a
	// fresh user otherwise. Idempotent per (provider, providerID).
	UpsertFromIdentity(ctx context.Context, ident Identity) (*models.User, error)

	// CreateWithPassword registers an email/password credential. It fails
	// with ErrEmailExists when a user with the email already holds a
	// password hash, attaches the credential to an existing passwordless
	// user with that email, and creates a new user otherwise.
	CreateWithPassword(ctx context.Context, email, name, passwordHash string) (*models.User, error)
}
