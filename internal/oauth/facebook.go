package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ventyapp/venty-auth/internal/config"
)

const facebookGraphURL = "https://graph.facebook.com"

// FacebookVerifier validates a user access token with the debug_token
// endpoint (using app-level credentials) and then fetches the profile via
// the Graph API with the same token.
type FacebookVerifier struct {
	appID      string
	appSecret  string
	graphURL   string
	httpClient *http.Client
}

func NewFacebookVerifier(cfg config.FacebookConfig) *FacebookVerifier {
	return &FacebookVerifier{
		appID:      cfg.AppID,
		appSecret:  cfg.AppSecret,
		graphURL:   facebookGraphURL,
		httpClient: defaultHTTPClient(),
	}
}

func (v *FacebookVerifier) Name() string {
	return "facebook"
}

func (v *FacebookVerifier) VerifyAccessToken(ctx context.Context, accessToken string) (*Identity, error) {
	if err := v.debugToken(ctx, accessToken); err != nil {
		return nil, err
	}
	return v.fetchProfile(ctx, accessToken)
}

func (v *FacebookVerifier) debugToken(ctx context.Context, accessToken string) error {
	q := url.Values{}
	q.Set("input_token", accessToken)
	q.Set("access_token", v.appID+"|"+v.appSecret)

	resp, err := v.get(ctx, "/debug_token", q)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: debug_token returned status %d", ErrInvalidToken, resp.StatusCode)
	}

	var body struct {
		Data struct {
			AppID   string `json:"app_id"`
			IsValid bool   `json:"is_valid"`
			UserID  string `json:"user_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: failed to decode debug_token response: %v", ErrInvalidToken, err)
	}

	if !body.Data.IsValid || body.Data.UserID == "" {
		return fmt.Errorf("%w: token reported invalid", ErrInvalidToken)
	}
	if v.appID != "" && body.Data.AppID != v.appID {
		return fmt.Errorf("%w: token issued for a different app", ErrInvalidToken)
	}
	return nil
}

func (v *FacebookVerifier) fetchProfile(ctx context.Context, accessToken string) (*Identity, error) {
	q := url.Values{}
	q.Set("fields", "id,name,email,picture")
	q.Set("access_token", accessToken)

	resp, err := v.get(ctx, "/me", q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile fetch returned status %d", ErrInvalidToken, resp.StatusCode)
	}

	var profile struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode profile: %v", ErrInvalidToken, err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%w: profile carried no id", ErrInvalidToken)
	}

	return &Identity{
		Provider:   "facebook",
		ProviderID: profile.ID,
		Email:      profile.Email,
		Name:       profile.Name,
		Picture:    profile.Picture.Data.URL,
	}, nil
}

func (v *FacebookVerifier) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.graphURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph request: %w", err)
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: graph api: %v", ErrUpstream, err)
	}
	return resp, nil
}
