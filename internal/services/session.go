package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidSession covers every verification failure: bad signature,
// expiry, malformed token, wrong claims. Callers treat it the same as "no
// session".
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionService signs and verifies the stateless session token. The
// token carries only the canonical user id; there is no server-side
// session table and no revocation.
type SessionService struct {
	secret []byte
	expiry time.Duration
}

type sessionClaims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// NewSessionService fails when the signing secret is absent. That is a
// fatal misconfiguration, not something to limp along without.
func NewSessionService(secret string, expiry time.Duration) (*SessionService, error) {
	if secret == "" {
		return nil, errors.New("session signing secret is not configured")
	}
	return &SessionService{secret: []byte(secret), expiry: expiry}, nil
}

func (s *SessionService) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()

	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "venty-auth",
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

func (s *SessionService) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		return uuid.Nil, ErrInvalidSession
	}
	return claims.UserID, nil
}

// Expiry is the session validity window; the cookie max-age matches it.
func (s *SessionService) Expiry() time.Duration {
	return s.expiry
}
