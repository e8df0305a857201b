package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionService_MissingSecret(t *testing.T) {
	svc, err := NewSessionService("", 168*time.Hour)

	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestSessionService_IssueAndVerify(t *testing.T) {
	svc, err := NewSessionService("test-secret", 168*time.Hour)
	require.NoError(t, err)

	userID := uuid.New()

	token, err := svc.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestSessionService_Verify_WrongSecret(t *testing.T) {
	issuer, err := NewSessionService("secret-1", 168*time.Hour)
	require.NoError(t, err)
	verifier, err := NewSessionService("secret-2", 168*time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionService_Verify_Expired(t *testing.T) {
	svc, err := NewSessionService("test-secret", 1*time.Millisecond)
	require.NoError(t, err)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionService_Verify_Malformed(t *testing.T) {
	svc, err := NewSessionService("test-secret", 168*time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt-token"},
		{"partial jwt", "eyJhbGciOiJIUzI1NiJ9."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Verify(tc.token)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestSessionService_Expiry(t *testing.T) {
	svc, err := NewSessionService("test-secret", 168*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 168*time.Hour, svc.Expiry())
}
