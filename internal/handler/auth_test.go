package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/classiflow/classiflow-go/internal/crypto"
	"github.com/classiflow/classiflow-go/internal/model"
	"github.com/classiflow/classiflow-go/internal/repository"
	"github.com/classiflow/classiflow-go/internal/service"
	"github.com/classiflow/classiflow-go/internal/session"
)

// memUserRepo is an in-memory user store for handler tests.
type memUserRepo struct {
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memUserRepo) UpdateProfile(_ context.Context, id, firstName, lastName, email string) error {
	u, ok := m.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	for otherID, other := range m.users {
		if otherID != id && other.Email == email {
			return repository.ErrDuplicateEmail
		}
	}
	u.FirstName, u.LastName, u.Email = firstName, lastName, email
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type authHarness struct {
	handler *AuthHandler
	users   *UserHandler
	repo    *memUserRepo
	cookies *session.CookieManager
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	repo := newMemUserRepo()
	codec := crypto.NewTokenCodec("test-secret", time.Hour)
	cookies := session.NewCookieManager(false, time.Hour)
	svc := service.NewAuthService(repo, codec)
	return &authHarness{
		handler: NewAuthHandler(svc, cookies),
		users:   NewUserHandler(svc, cookies),
		repo:    repo,
		cookies: cookies,
	}
}

func postForm(handlerFunc http.HandlerFunc, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) model.ActionResult {
	t.Helper()
	var result model.ActionResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return result
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := rec.Result()
	defer res.Body.Close()
	for _, c := range res.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func signupForm() url.Values {
	return url.Values{
		"firstName": {"Amine"},
		"lastName":  {"Ach"},
		"email":     {"amine@example.com"},
		"password":  {"password123"},
	}
}

func signup(t *testing.T, h *authHarness) *http.Cookie {
	t.Helper()
	rec := postForm(h.handler.HandleSignup, "/api/v1/auth/signup", signupForm())
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body %s", rec.Code, rec.Body.String())
	}
	cookie := sessionCookie(t, rec)
	if cookie == nil {
		t.Fatal("signup did not set a session cookie")
	}
	return cookie
}

func TestSignupSuccess(t *testing.T) {
	h := newAuthHarness(t)

	rec := postForm(h.handler.HandleSignup, "/api/v1/auth/signup", signupForm())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	result := decodeResult(t, rec)
	if !result.Success {
		t.Fatalf("success = false, errors: %v", result.Errors)
	}
	if result.User == nil || result.User.Name != "Amine Ach" || result.User.Email != "amine@example.com" {
		t.Errorf("user projection = %+v", result.User)
	}

	cookie := sessionCookie(t, rec)
	if cookie == nil {
		t.Fatal("no session cookie set")
	}
	if !cookie.HttpOnly || cookie.Path != "/" {
		t.Errorf("cookie attributes = %+v, want HTTP-only path /", cookie)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	h := newAuthHarness(t)
	signup(t, h)

	rec := postForm(h.handler.HandleSignup, "/api/v1/auth/signup", signupForm())
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	result := decodeResult(t, rec)
	if result.Success {
		t.Fatal("duplicate signup must not succeed")
	}
	if got := result.Errors["email"]; len(got) != 1 || got[0] != msgEmailAlreadyExists {
		t.Errorf("email errors = %v", got)
	}
	if sessionCookie(t, rec) != nil {
		t.Error("failed signup must not set a cookie")
	}
	if len(h.repo.users) != 1 {
		t.Errorf("duplicate signup wrote a record: %d users", len(h.repo.users))
	}
}

func TestSignupValidationErrors(t *testing.T) {
	h := newAuthHarness(t)

	form := signupForm()
	form.Set("firstName", "A")
	form.Set("password", "short")

	rec := postForm(h.handler.HandleSignup, "/api/v1/auth/signup", form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	result := decodeResult(t, rec)
	if len(result.Errors["firstName"]) == 0 || len(result.Errors["password"]) == 0 {
		t.Errorf("errors = %v, want firstName and password entries", result.Errors)
	}
}

func TestLoginSuccess(t *testing.T) {
	h := newAuthHarness(t)
	signup(t, h)

	rec := postForm(h.handler.HandleLogin, "/api/v1/auth/login", url.Values{
		"email":    {"amine@example.com"},
		"password": {"password123"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	result := decodeResult(t, rec)
	if !result.Success || result.User == nil {
		t.Fatalf("result = %+v", result)
	}
	if sessionCookie(t, rec) == nil {
		t.Error("no session cookie set on login")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newAuthHarness(t)

	rec := postForm(h.handler.HandleLogin, "/api/v1/auth/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"password123"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	result := decodeResult(t, rec)
	if got := result.Errors["email"]; len(got) != 1 || got[0] != msgUserNotFound {
		t.Errorf("email errors = %v, want [%s]", got, msgUserNotFound)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthHarness(t)
	signup(t, h)

	rec := postForm(h.handler.HandleLogin, "/api/v1/auth/login", url.Values{
		"email":    {"amine@example.com"},
		"password": {"wrongpassword"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	result := decodeResult(t, rec)
	if got := result.Errors["password"]; len(got) != 1 || got[0] != msgInvalidPassword {
		t.Errorf("password errors = %v, want [%s]", got, msgInvalidPassword)
	}
	if sessionCookie(t, rec) != nil {
		t.Error("failed login must not set a cookie")
	}
}

func TestLogoutClearsCookieAndRedirects(t *testing.T) {
	h := newAuthHarness(t)
	cookie := signup(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.handler.HandleLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect location = %q, want /login", loc)
	}
	cleared := sessionCookie(t, rec)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Error("logout must expire the session cookie")
	}
}

func TestMeAnonymousReturnsNull(t *testing.T) {
	h := newAuthHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	h.handler.HandleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("body = %q, want null for anonymous session", body)
	}
}

func TestMeReturnsFreshProfile(t *testing.T) {
	h := newAuthHarness(t)
	cookie := signup(t, h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.handler.HandleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var profile model.Profile
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if profile.Email != "amine@example.com" || profile.Role != model.RoleUser || !profile.IsActive {
		t.Errorf("profile = %+v", profile)
	}
}

func TestUpdateProfileIgnoresInjectedRole(t *testing.T) {
	h := newAuthHarness(t)
	cookie := signup(t, h)

	form := url.Values{
		"firstName": {"Nouveau"},
		"lastName":  {"Nom"},
		"email":     {"nouveau@example.com"},
		"role":      {"admin"}, // must be ignored
	}
	rec := postForm(h.handler.HandleUpdateProfile, "/api/v1/auth/profile", form, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	for _, u := range h.repo.users {
		if u.Role != model.RoleUser {
			t.Errorf("role escalated to %q via profile update", u.Role)
		}
		if u.FirstName != "Nouveau" || u.Email != "nouveau@example.com" {
			t.Errorf("profile fields not updated: %+v", u)
		}
	}
}

func TestUpdateProfileUnauthenticated(t *testing.T) {
	h := newAuthHarness(t)

	rec := postForm(h.handler.HandleUpdateProfile, "/api/v1/auth/profile", url.Values{
		"firstName": {"Amine"},
		"lastName":  {"Ach"},
		"email":     {"amine@example.com"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	result := decodeResult(t, rec)
	if got := result.Errors[model.FormErrorKey]; len(got) != 1 || got[0] != msgLoginRequired {
		t.Errorf("form errors = %v", got)
	}
}

func TestDeleteAccountUnauthenticated(t *testing.T) {
	h := newAuthHarness(t)
	signup(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/delete-account", nil)
	rec := httptest.NewRecorder()
	h.handler.HandleDeleteAccount(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if len(h.repo.users) != 1 {
		t.Error("unauthenticated delete removed a record")
	}
}

func TestDeleteAccountSuccess(t *testing.T) {
	h := newAuthHarness(t)
	cookie := signup(t, h)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/delete-account", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.handler.HandleDeleteAccount(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect location = %q, want /", loc)
	}
	if len(h.repo.users) != 0 {
		t.Error("record not deleted")
	}
	cleared := sessionCookie(t, rec)
	if cleared == nil || cleared.MaxAge >= 0 {
		t.Error("delete-account must expire the session cookie")
	}
}
