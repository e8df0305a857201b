package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ventyapp/venty-auth/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleVerifier handles both Google sign-in paths: the authorization-code
// redirect flow and direct ID-token verification. Either way the ID token
// is validated against Google's tokeninfo endpoint, with the audience
// required to match the configured client id.
type GoogleVerifier struct {
	config       *oauth2.Config
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

func NewGoogleVerifier(cfg config.GoogleConfig, redirectURL string) *GoogleVerifier {
	return &GoogleVerifier{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		clientID:     cfg.ClientID,
		tokenInfoURL: googleTokenInfoURL,
		httpClient:   defaultHTTPClient(),
	}
}

func (v *GoogleVerifier) Name() string {
	return "google"
}

// Configured reports whether the redirect flow can run; the direct
// ID-token flow works without a client secret.
func (v *GoogleVerifier) Configured() bool {
	return v.config.ClientID != "" && v.config.ClientSecret != ""
}

func (v *GoogleVerifier) ConsentURL(state string) string {
	return v.config.AuthCodeURL(state)
}

// ExchangeCode swaps an authorization code for tokens and validates the
// ID token carried in the response.
func (v *GoogleVerifier) ExchangeCode(ctx context.Context, code string) (*Identity, error) {
	token, err := v.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange code: %v", ErrInvalidToken, err)
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return nil, fmt.Errorf("%w: token response carried no id token", ErrInvalidToken)
	}

	return v.VerifyIDToken(ctx, idToken)
}

// VerifyIDToken validates an ID token against Google's tokeninfo endpoint.
// The audience check is skipped only when no client id is configured.
func (v *GoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	reqURL := v.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: tokeninfo: %v", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: tokeninfo returned status %d", ErrInvalidToken, resp.StatusCode)
	}

	var info struct {
		Aud     string `json:"aud"`
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: failed to decode tokeninfo response: %v", ErrInvalidToken, err)
	}

	if info.Sub == "" {
		return nil, fmt.Errorf("%w: tokeninfo response carried no subject", ErrInvalidToken)
	}
	if v.clientID != "" && info.Aud != v.clientID {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}

	return &Identity{
		Provider:   "google",
		ProviderID: info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		Picture:    info.Picture,
	}, nil
}
