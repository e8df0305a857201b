package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ventyapp/venty-auth/internal/models"
)

// FileStore keeps the whole user set in memory and rewrites one JSON file
// on every mutation. Mutations are serialized by a single mutex and the
// file is replaced atomically, so concurrent signups cannot lose updates
// or duplicate users.
type FileStore struct {
	path string

	mu    sync.Mutex
	users []*models.User
}

// NewFileStore loads the store file. A missing file is an empty store;
// malformed content is an error rather than a silent reset, since quietly
// dropping every user is worse than refusing to start.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user store: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.users); err != nil {
		return nil, fmt.Errorf("user store %s is corrupt: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			return clone(u), nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findByEmailLocked(email); u != nil {
		return clone(u), nil
	}
	return nil, ErrNotFound
}

func (s *FileStore) UpsertFromIdentity(_ context.Context, ident Identity) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.HasProvider(ident.Provider, ident.ProviderID) || (ident.Email != "" && u.Email == ident.Email) {
			u.LinkProvider(ident.Provider, ident.ProviderID)
			u.Backfill(ident.Email, ident.Name, ident.Picture)
			if err := s.persistLocked(); err != nil {
				return nil, err
			}
			return clone(u), nil
		}
	}

	u := &models.User{
		ID:        uuid.New(),
		Email:     ident.Email,
		Name:      ident.Name,
		Picture:   ident.Picture,
		Providers: []models.ProviderLink{{Provider: ident.Provider, ProviderID: ident.ProviderID}},
		CreatedAt: time.Now().UTC(),
	}
	s.users = append(s.users, u)
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return clone(u), nil
}

func (s *FileStore) CreateWithPassword(_ context.Context, email, name, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u := s.findByEmailLocked(email); u != nil {
		if u.HasPassword() {
			return nil, ErrEmailExists
		}
		u.PasswordHash = passwordHash
		u.Backfill("", name, "")
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
		return clone(u), nil
	}

	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Providers:    []models.ProviderLink{},
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users = append(s.users, u)
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return clone(u), nil
}

func (s *FileStore) findByEmailLocked(email string) *models.User {
	if email == "" {
		return nil
	}
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// persistLocked rewrites the store file via a temp file and rename so a
// crash mid-write never leaves a half-written store behind.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write user store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace user store: %w", err)
	}
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	c.Providers = make([]models.ProviderLink, len(u.Providers))
	copy(c.Providers, u.Providers)
	return &c
}
