package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/classiflow/classiflow-go/internal/model"
	"github.com/classiflow/classiflow-go/internal/repository"
	"github.com/classiflow/classiflow-go/internal/service"
	"github.com/classiflow/classiflow-go/internal/session"
)

// User-facing messages of the auth actions.
const (
	msgUserNotFound        = "User not found"
	msgInvalidPassword     = "Invalid password"
	msgEmailAlreadyExists  = "A user with this email already exists"
	msgEmailInUse          = "This email address is already in use by another account."
	msgLoginRequired       = "You must be logged in to update your profile."
	msgUnexpectedError     = "An unexpected error occurred"
	msgDeleteAccountError  = "An unexpected error occurred while deleting your account."
	msgDeleteLoginRequired = "You must be logged in to delete an account."
)

// AuthHandler exposes the auth actions over HTTP. Inputs are form-encoded;
// responses use the {success, errors, user} envelope. The session cookie is
// written only after an action fully succeeds.
type AuthHandler struct {
	service *service.AuthService
	cookies *session.CookieManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, cookies *session.CookieManager) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies}
}

// HandleLogin handles POST /api/v1/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, actionFailure(formErrors("invalid form data")))
		return
	}

	user, token, err := h.service.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, actionFailure(verr.Fields))
		case errors.Is(err, repository.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, actionFailure(fieldErrors("email", msgUserNotFound)))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, actionFailure(fieldErrors("password", msgInvalidPassword)))
		default:
			slog.Error("login failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, actionFailure(formErrors(msgUnexpectedError)))
		}
		return
	}

	h.cookies.Set(w, token)
	writeJSON(w, http.StatusOK, actionSuccess(&user))
}

// HandleSignup handles POST /api/v1/auth/signup requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, actionFailure(formErrors("invalid form data")))
		return
	}

	req := model.CreateAccountRequest{
		FirstName: r.PostFormValue("firstName"),
		LastName:  r.PostFormValue("lastName"),
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
	}

	user, token, err := h.service.CreateAccount(r.Context(), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, actionFailure(verr.Fields))
		case errors.Is(err, repository.ErrDuplicateEmail):
			writeJSON(w, http.StatusConflict, actionFailure(fieldErrors("email", msgEmailAlreadyExists)))
		default:
			slog.Error("account creation failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, actionFailure(formErrors(msgUnexpectedError)))
		}
		return
	}

	h.cookies.Set(w, token)
	writeJSON(w, http.StatusCreated, actionSuccess(&user))
}

// HandleLogout handles POST /api/v1/auth/logout requests. The cookie is
// cleared unconditionally and the client is sent to the login surface.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleMe handles GET /api/v1/auth/me requests. An anonymous session gets
// a JSON null body, never an error.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.CurrentUser(r.Context(), h.cookies.Read(r))
	if err != nil {
		slog.Error("resolving current user failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(msgUnexpectedError))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleUpdateProfile handles POST /api/v1/auth/profile requests. Only first
// name, last name and email are read from the form; an injected role field is
// ignored.
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, actionFailure(formErrors("invalid form data")))
		return
	}

	req := model.UpdateProfileRequest{
		FirstName: r.PostFormValue("firstName"),
		LastName:  r.PostFormValue("lastName"),
		Email:     r.PostFormValue("email"),
	}

	err := h.service.UpdateProfile(r.Context(), h.cookies.Read(r), req)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, actionFailure(formErrors(msgLoginRequired)))
		case errors.As(err, &verr):
			writeJSON(w, http.StatusBadRequest, actionFailure(verr.Fields))
		case errors.Is(err, repository.ErrDuplicateEmail):
			writeJSON(w, http.StatusConflict, actionFailure(fieldErrors("email", msgEmailInUse)))
		default:
			slog.Error("profile update failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, actionFailure(formErrors(msgUnexpectedError)))
		}
		return
	}

	writeJSON(w, http.StatusOK, model.ActionResult{Success: true})
}

// HandleDeleteAccount handles POST /api/v1/auth/delete-account requests.
// The authentication check is a hard failure: nothing is deleted without a
// verified session.
func (h *AuthHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteAccount(r.Context(), h.cookies.Read(r))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			writeJSON(w, http.StatusUnauthorized, errorResponse(msgDeleteLoginRequired))
			return
		}
		slog.Error("account deletion failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, actionFailure(formErrors(msgDeleteAccountError)))
		return
	}

	h.cookies.Clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
