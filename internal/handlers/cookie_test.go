package handlers

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCookieFor(t *testing.T, p CookiePolicy, mutate func(*http.Request)) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	if mutate != nil {
		mutate(req)
	}

	rec := httptest.NewRecorder()
	p.Set(rec, req, "session-token", time.Hour)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestCookiePolicy_Set(t *testing.T) {
	c := setCookieFor(t, NewCookiePolicy(false), nil)

	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "session-token", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.False(t, c.Secure)
}

func TestCookiePolicy_Secure(t *testing.T) {
	cases := []struct {
		name        string
		forceSecure bool
		mutate      func(*http.Request)
		want        bool
	}{
		{"plain http", false, nil, false},
		{"force secure", true, nil, true},
		{"tls request", false, func(r *http.Request) {
			r.TLS = &tls.ConnectionState{}
		}, true},
		{"forwarded https", false, func(r *http.Request) {
			r.Header.Set("X-Forwarded-Proto", "https")
		}, true},
		{"forwarded https uppercase", false, func(r *http.Request) {
			r.Header.Set("X-Forwarded-Proto", "HTTPS")
		}, true},
		{"forwarded chain takes first", false, func(r *http.Request) {
			r.Header.Set("X-Forwarded-Proto", "https, http")
		}, true},
		{"forwarded http chain", false, func(r *http.Request) {
			r.Header.Set("X-Forwarded-Proto", "http, https")
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := setCookieFor(t, NewCookiePolicy(tc.forceSecure), tc.mutate)
			assert.Equal(t, tc.want, c.Secure)
		})
	}
}

func TestCookiePolicy_Clear(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()

	NewCookiePolicy(false).Clear(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
}
