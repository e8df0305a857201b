package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ventyapp/venty-auth/internal/database"
	"github.com/ventyapp/venty-auth/internal/models"
)

// PostgresStore implements the same contract as the file store on top of
// pgx. Upserts run inside a transaction and the (provider, provider_id)
// primary key makes identity linking atomic.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, email, name, picture, password_hash, created_at`

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadProviders(ctx, s.db.Pool, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, ErrNotFound
	}
	u, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1 ORDER BY created_at LIMIT 1
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := loadProviders(ctx, s.db.Pool, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) UpsertFromIdentity(ctx context.Context, ident Identity) (*models.User, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u, err := scanUser(tx.QueryRow(ctx, `
		SELECT u.id, u.email, u.name, u.picture, u.password_hash, u.created_at
		FROM users u
		JOIN user_providers p ON p.user_id = u.id
		WHERE p.provider = $1 AND p.provider_id = $2
	`, ident.Provider, ident.ProviderID))
	if errors.Is(err, pgx.ErrNoRows) && ident.Email != "" {
		u, err = scanUser(tx.QueryRow(ctx, `
			SELECT `+userColumns+` FROM users WHERE email = $1 ORDER BY created_at LIMIT 1
		`, ident.Email))
	}

	switch {
	case err == nil:
		u.Backfill(ident.Email, ident.Name, ident.Picture)
		if _, err := tx.Exec(ctx, `
			UPDATE users SET email = $1, name = $2, picture = $3 WHERE id = $4
		`, u.Email, u.Name, u.Picture, u.ID); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_providers (provider, provider_id, user_id)
			VALUES ($1, $2, $3) ON CONFLICT DO NOTHING
		`, ident.Provider, ident.ProviderID, u.ID); err != nil {
			return nil, fmt.Errorf("failed to link provider: %w", err)
		}

	case errors.Is(err, pgx.ErrNoRows):
		u = &models.User{
			ID:        uuid.New(),
			Email:     ident.Email,
			Name:      ident.Name,
			Picture:   ident.Picture,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, name, picture, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, u.ID, u.Email, u.Name, u.Picture, u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_providers (provider, provider_id, user_id)
			VALUES ($1, $2, $3)
		`, ident.Provider, ident.ProviderID, u.ID); err != nil {
			return nil, fmt.Errorf("failed to link provider: %w", err)
		}

	default:
		return nil, err
	}

	if err := loadProviders(ctx, tx, u); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) CreateWithPassword(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u, err := scanUser(tx.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1 ORDER BY created_at LIMIT 1
	`, email))

	switch {
	case err == nil:
		if u.HasPassword() {
			return nil, ErrEmailExists
		}
		u.PasswordHash = passwordHash
		u.Backfill("", name, "")
		if _, err := tx.Exec(ctx, `
			UPDATE users SET password_hash = $1, name = $2 WHERE id = $3
		`, u.PasswordHash, u.Name, u.ID); err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}

	case errors.Is(err, pgx.ErrNoRows):
		u = &models.User{
			ID:           uuid.New(),
			Email:        email,
			Name:         name,
			PasswordHash: passwordHash,
			CreatedAt:    time.Now().UTC(),
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, name, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

	default:
		return nil, err
	}

	if err := loadProviders(ctx, tx, u); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Picture, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func loadProviders(ctx context.Context, q querier, u *models.User) error {
	rows, err := q.Query(ctx, `
		SELECT provider, provider_id FROM user_providers WHERE user_id = $1 ORDER BY created_at
	`, u.ID)
	if err != nil {
		return fmt.Errorf("failed to load provider links: %w", err)
	}
	defer rows.Close()

	u.Providers = []models.ProviderLink{}
	for rows.Next() {
		var l models.ProviderLink
		if err := rows.Scan(&l.Provider, &l.ProviderID); err != nil {
			return fmt.Errorf("failed to scan provider link: %w", err)
		}
		u.Providers = append(u.Providers, l)
	}
	return rows.Err()
}
