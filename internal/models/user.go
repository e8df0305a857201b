package models

import (
	"time"

	"github.com/google/uuid"
)

// ProviderLink records that an external identity maps to this account.
// A given (Provider, ProviderID) pair belongs to at most one user.
type ProviderLink struct {
	Provider   string `json:"provider"`
	ProviderID string `json:"providerUserId"`
}

// User is the canonical account record. The JSON tags double as the
// persistence format of the file store.
type User struct {
	ID           uuid.UUID      `json:"userId"`
	Email        string         `json:"email,omitempty"`
	Name         string         `json:"name,omitempty"`
	Picture      string         `json:"picture,omitempty"`
	Providers    []ProviderLink `json:"providers"`
	PasswordHash string         `json:"passwordHash,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (u *User) HasProvider(provider, providerID string) bool {
	for _, l := range u.Providers {
		if l.Provider == provider && l.ProviderID == providerID {
			return true
		}
	}
	return false
}

// LinkProvider appends the provider link if not already present. Links are
// append-only; nothing removes them.
func (u *User) LinkProvider(provider, providerID string) {
	if !u.HasProvider(provider, providerID) {
		u.Providers = append(u.Providers, ProviderLink{Provider: provider, ProviderID: providerID})
	}
}

// Backfill fills empty profile fields from the given values. Non-empty
// fields are never overwritten; the first provider to supply a value wins.
func (u *User) Backfill(email, name, picture string) {
	if u.Email == "" {
		u.Email = email
	}
	if u.Name == "" {
		u.Name = name
	}
	if u.Picture == "" {
		u.Picture = picture
	}
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
