package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ventyapp/venty-auth/internal/oauth"
)

// MockGoogleVerifier mocks the Google credential verifier
type MockGoogleVerifier struct {
	mock.Mock
}

func (m *MockGoogleVerifier) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockGoogleVerifier) ConsentURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockGoogleVerifier) ExchangeCode(ctx context.Context, code string) (*oauth.Identity, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Identity), args.Error(1)
}

func (m *MockGoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*oauth.Identity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Identity), args.Error(1)
}

// MockAppleVerifier mocks the Apple credential verifier
type MockAppleVerifier struct {
	mock.Mock
}

func (m *MockAppleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*oauth.Identity, error) {
	args := m.Called(ctx, idToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Identity), args.Error(1)
}

// MockFacebookVerifier mocks the Facebook credential verifier
type MockFacebookVerifier struct {
	mock.Mock
}

func (m *MockFacebookVerifier) VerifyAccessToken(ctx context.Context, accessToken string) (*oauth.Identity, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth.Identity), args.Error(1)
}
