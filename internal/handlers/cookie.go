package handlers

import (
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "venty_session"

// CookiePolicy decides the transport attributes of the session cookie.
// The service usually sits behind a TLS-terminating proxy, so "secure" is
// inferred from the forwarded protocol (or forced in production) rather
// than from the raw transport.
type CookiePolicy struct {
	forceSecure bool
}

func NewCookiePolicy(forceSecure bool) CookiePolicy {
	return CookiePolicy{forceSecure: forceSecure}
}

func (p CookiePolicy) Set(w http.ResponseWriter, r *http.Request, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   p.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear instructs the client to discard the session cookie immediately.
func (p CookiePolicy) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (p CookiePolicy) secure(r *http.Request) bool {
	if p.forceSecure || r.TLS != nil {
		return true
	}
	proto := r.Header.Get("X-Forwarded-Proto")
	if i := strings.IndexByte(proto, ','); i >= 0 {
		proto = proto[:i]
	}
	return strings.EqualFold(strings.TrimSpace(proto), "https")
}
