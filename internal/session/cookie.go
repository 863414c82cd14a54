// Package session manages the HTTP cookie carrying the signed session token.
// The token itself is the full session state; nothing is cached server-side.
package session

import (
	"net/http"
	"time"
)

// CookieName is the name of the session cookie.
const CookieName = "auth-token"

// CookieManager sets, reads and clears the session cookie.
type CookieManager struct {
	secure bool
	maxAge time.Duration
}

// NewCookieManager creates a CookieManager. secure enables the Secure flag
// (production only); maxAge bounds the cookie lifetime and should match the
// token TTL.
func NewCookieManager(secure bool, maxAge time.Duration) *CookieManager {
	return &CookieManager{secure: secure, maxAge: maxAge}
}

// Set writes the token as an HTTP-only cookie scoped to the whole site.
func (m *CookieManager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the token from the request cookie, or "" when absent.
func (m *CookieManager) Read(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Clear expires the session cookie unconditionally.
func (m *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
