package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ventyapp/venty-auth/internal/models"
	"github.com/ventyapp/venty-auth/internal/oauth"
)

// Service seams the handlers depend on; tests substitute mocks.

type UserServiceInterface interface {
	FindOrCreateFromIdentity(ctx context.Context, ident *oauth.Identity) (*models.User, error)
	SignupWithPassword(ctx context.Context, email, password, name string) (*models.User, error)
	LoginWithPassword(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type SessionServiceInterface interface {
	Issue(userID uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
	Expiry() time.Duration
}

type GoogleVerifierInterface interface {
	Configured() bool
	ConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*oauth.Identity, error)
	VerifyIDToken(ctx context.Context, idToken string) (*oauth.Identity, error)
}

type AppleVerifierInterface interface {
	VerifyIDToken(ctx context.Context, idToken string) (*oauth.Identity, error)
}

type FacebookVerifierInterface interface {
	VerifyAccessToken(ctx context.Context, accessToken string) (*oauth.Identity, error)
}
