package handlers

import (
	"net/url"
	"strings"
)

// safeRedirectPath validates an OAuth state value as a same-origin
// relative path. Absolute URLs, protocol-relative ("//") targets, and
// backslash tricks all fall back to the root path.
func safeRedirectPath(state string) string {
	if state == "" {
		return "/"
	}
	if !strings.HasPrefix(state, "/") || strings.HasPrefix(state, "//") || strings.Contains(state, "\\") {
		return "/"
	}
	u, err := url.Parse(state)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return "/"
	}
	return state
}
