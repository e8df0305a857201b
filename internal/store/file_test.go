package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "users.json"))
	require.NoError(t, err)
	return s
}

func TestNewFileStore_MissingFile(t *testing.T) {
	s := newTestFileStore(t)

	_, err := s.FindByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	assert.Empty(t, s.users)
}

func TestNewFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.ErrorContains(t, err, "corrupt")
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	ctx := context.Background()

	s, err := NewFileStore(path)
	require.NoError(t, err)

	created, err := s.UpsertFromIdentity(ctx, Identity{
		Provider:   "google",
		ProviderID: "g-123",
		Email:      "a@x.com",
		Name:       "Ada",
	})
	require.NoError(t, err)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	found, err := reopened.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", found.Email)
	assert.True(t, found.HasProvider("google", "g-123"))
	assert.Equal(t, created.CreatedAt.Unix(), found.CreatedAt.Unix())
}

func TestFileStore_UpsertFromIdentity_Idempotent(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()
	ident := Identity{Provider: "google", ProviderID: "g-123", Email: "a@x.com"}

	first, err := s.UpsertFromIdentity(ctx, ident)
	require.NoError(t, err)
	second, err := s.UpsertFromIdentity(ctx, ident)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, s.users, 1)
	assert.Len(t, second.Providers, 1)
}

func TestFileStore_UpsertFromIdentity_MatchesByEmail(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	first, err := s.UpsertFromIdentity(ctx, Identity{
		Provider: "google", ProviderID: "g-123", Email: "a@x.com", Name: "Ada",
	})
	require.NoError(t, err)

	second, err := s.UpsertFromIdentity(ctx, Identity{
		Provider: "apple", ProviderID: "ap-456", Email: "a@x.com",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Providers, 2)
}

func TestFileStore_UpsertFromIdentity_BackfillOnly(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	_, err := s.UpsertFromIdentity(ctx, Identity{
		Provider: "google", ProviderID: "g-123", Email: "a@x.com", Name: "Ada",
	})
	require.NoError(t, err)

	// Same account via a second provider with conflicting profile fields:
	// empty fields fill in, set fields keep their first value.
	u, err := s.UpsertFromIdentity(ctx, Identity{
		Provider:   "facebook",
		ProviderID: "fb-9",
		Email:      "a@x.com",
		Name:       "Someone Else",
		Picture:    "https://example.com/p.png",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", u.Name)
	assert.Equal(t, "https://example.com/p.png", u.Picture)
}

func TestFileStore_UpsertFromIdentity_NoEmailNoCrossMatch(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	first, err := s.UpsertFromIdentity(ctx, Identity{Provider: "apple", ProviderID: "ap-1"})
	require.NoError(t, err)
	second, err := s.UpsertFromIdentity(ctx, Identity{Provider: "apple", ProviderID: "ap-2"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, s.users, 2)
}

func TestFileStore_CreateWithPassword(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	u, err := s.CreateWithPassword(ctx, "a@x.com", "Ada", "salt:hash")
	require.NoError(t, err)
	assert.True(t, u.HasPassword())
	assert.Empty(t, u.Providers)

	_, err = s.CreateWithPassword(ctx, "a@x.com", "Imposter", "salt2:hash2")
	assert.ErrorIs(t, err, ErrEmailExists)

	unchanged, err := s.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "salt:hash", unchanged.PasswordHash)
	assert.Equal(t, "Ada", unchanged.Name)
}

func TestFileStore_CreateWithPassword_AttachesToExisting(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	oauthUser, err := s.UpsertFromIdentity(ctx, Identity{
		Provider: "google", ProviderID: "g-123", Email: "a@x.com",
	})
	require.NoError(t, err)

	u, err := s.CreateWithPassword(ctx, "a@x.com", "Ada", "salt:hash")
	require.NoError(t, err)

	assert.Equal(t, oauthUser.ID, u.ID)
	assert.True(t, u.HasPassword())
	assert.Equal(t, "Ada", u.Name)
	assert.Len(t, s.users, 1)
}

func TestFileStore_ConcurrentUpserts_SingleUser(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()
	ident := Identity{Provider: "google", ProviderID: "g-123", Email: "a@x.com"}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpsertFromIdentity(ctx, ident)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, s.users, 1)
	assert.Len(t, s.users[0].Providers, 1)
}

func TestFileStore_ReturnsCopies(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	u, err := s.UpsertFromIdentity(ctx, Identity{Provider: "google", ProviderID: "g-123", Email: "a@x.com"})
	require.NoError(t, err)

	u.Email = "tampered@x.com"

	stored, err := s.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", stored.Email)
}
