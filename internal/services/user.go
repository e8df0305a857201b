package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ventyapp/venty-auth/internal/models"
	"github.com/ventyapp/venty-auth/internal/oauth"
	"github.com/ventyapp/venty-auth/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
)

// UserService resolves verified identities and password credentials to
// canonical user records.
type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

// NormalizeIdentity maps a provider verification result to the canonical
// identity the store consumes. Pure; emails are lowercased so the same
// address matches across providers.
func NormalizeIdentity(ident *oauth.Identity) store.Identity {
	return store.Identity{
		Provider:   ident.Provider,
		ProviderID: ident.ProviderID,
		Email:      normalizeEmail(ident.Email),
		Name:       strings.TrimSpace(ident.Name),
		Picture:    ident.Picture,
	}
}

func (s *UserService) FindOrCreateFromIdentity(ctx context.Context, ident *oauth.Identity) (*models.User, error) {
	user, err := s.store.UpsertFromIdentity(ctx, NormalizeIdentity(ident))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	return user, nil
}

// SignupWithPassword registers an email/password credential, attaching it
// to an existing passwordless account with the same email when present.
func (s *UserService) SignupWithPassword(ctx context.Context, email, password, name string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.CreateWithPassword(ctx, normalizeEmail(email), strings.TrimSpace(name), hash)
	if errors.Is(err, store.ErrEmailExists) {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// LoginWithPassword checks an email/password pair. Unknown email, no
// password credential, and wrong password all yield the same error.
func (s *UserService) LoginWithPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() || !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
