package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/classiflow/classiflow-go/internal/service"
	"github.com/classiflow/classiflow-go/internal/session"
)

// UserHandler is the session-aware user data endpoint: GET returns the
// authenticated user's projection, POST echoes a merged projection without
// persisting (stub collaborator), DELETE performs a real account deletion.
type UserHandler struct {
	service *service.AuthService
	cookies *session.CookieManager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.AuthService, cookies *session.CookieManager) *UserHandler {
	return &UserHandler{service: svc, cookies: cookies}
}

// HandleGet handles GET /api/v1/user requests.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.CurrentUser(r.Context(), h.cookies.Read(r))
	if err != nil {
		slog.Error("fetching user failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to fetch user data."))
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandlePost handles POST /api/v1/user requests: the JSON body is merged
// over the current projection and echoed back. Nothing is persisted here.
func (h *UserHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.CurrentUser(r.Context(), h.cookies.Read(r))
	if err != nil {
		slog.Error("fetching user failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("Failed to fetch user data."))
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	merged := map[string]any{
		"id":        profile.ID,
		"email":     profile.Email,
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"role":      profile.Role,
		"bio":       profile.Bio,
		"isActive":  profile.IsActive,
	}
	for k, v := range body {
		merged[k] = v
	}

	writeJSON(w, http.StatusOK, merged)
}

// HandleDelete handles DELETE /api/v1/user requests.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteAccount(r.Context(), h.cookies.Read(r))
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
			return
		}
		slog.Error("account deletion failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse(msgDeleteAccountError))
		return
	}

	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted successfully"})
}
