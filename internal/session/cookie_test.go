package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestSetCookieAttributes(t *testing.T) {
	m := NewCookieManager(false, 7*24*time.Hour)
	rec := httptest.NewRecorder()

	m.Set(rec, "token-value")

	c := findCookie(t, rec)
	if c.Value != "token-value" {
		t.Errorf("cookie value = %q, want token-value", c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie must be HTTP-only")
	}
	if c.Path != "/" {
		t.Errorf("cookie path = %q, want /", c.Path)
	}
	if c.MaxAge != int((7 * 24 * time.Hour).Seconds()) {
		t.Errorf("cookie max-age = %d, want 7 days in seconds", c.MaxAge)
	}
	if c.Secure {
		t.Error("secure flag must be off outside production")
	}
}

func TestSetCookieSecureInProduction(t *testing.T) {
	m := NewCookieManager(true, time.Hour)
	rec := httptest.NewRecorder()

	m.Set(rec, "token-value")

	if c := findCookie(t, rec); !c.Secure {
		t.Error("secure flag must be on in production")
	}
}

func TestReadMissingCookie(t *testing.T) {
	m := NewCookieManager(false, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := m.Read(req); got != "" {
		t.Errorf("Read() = %q, want empty for missing cookie", got)
	}
}

func TestReadRoundTrip(t *testing.T) {
	m := NewCookieManager(false, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "token-value"})

	if got := m.Read(req); got != "token-value" {
		t.Errorf("Read() = %q, want token-value", got)
	}
}

func TestClearExpiresCookie(t *testing.T) {
	m := NewCookieManager(false, time.Hour)
	rec := httptest.NewRecorder()

	m.Clear(rec)

	c := findCookie(t, rec)
	if c.Value != "" {
		t.Errorf("cleared cookie value = %q, want empty", c.Value)
	}
	if c.MaxAge >= 0 {
		t.Errorf("cleared cookie max-age = %d, want negative", c.MaxAge)
	}
}
