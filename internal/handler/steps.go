package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classiflow/classiflow-go/internal/middleware"
	"github.com/classiflow/classiflow-go/internal/model"
	"github.com/classiflow/classiflow-go/internal/service"
	"github.com/classiflow/classiflow-go/internal/wizard"
)

// StepsHandler exposes questionnaire step persistence per organization.
// Routes sit behind the session middleware.
type StepsHandler struct {
	service *service.StepService
}

// NewStepsHandler creates a new StepsHandler.
func NewStepsHandler(svc *service.StepService) *StepsHandler {
	return &StepsHandler{service: svc}
}

// HandleSaveStep2 handles PUT /api/v1/organizations/{organization_id}/steps/2.
// The body is a step 2 result; it is normalized server-side before the
// upsert, so resubmitting after a failure is safe and a hand-crafted payload
// cannot bypass the form invariants.
func (h *StepsHandler) HandleSaveStep2(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	organizationID := chi.URLParam(r, "organization_id")
	if organizationID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid organization id"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20) // 10MB

	var result model.Step2Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	saved, err := h.service.SaveStep2(r.Context(), organizationID, result)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStepNumber),
			errors.Is(err, service.ErrMissingTimestamp),
			errors.Is(err, wizard.ErrInventoryAnswerRequired),
			errors.Is(err, wizard.ErrDataTypeRequired),
			errors.Is(err, wizard.ErrInventoryFileRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			slog.Error("saving step failed", "organization_id", organizationID, "user_id", userID, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// HandleResults handles GET /api/v1/organizations/{organization_id}/steps.
func (h *StepsHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	organizationID := chi.URLParam(r, "organization_id")
	if organizationID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid organization id"))
		return
	}

	results, err := h.service.Results(r.Context(), organizationID)
	if err != nil {
		slog.Error("loading step results failed", "organization_id", organizationID, "user_id", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, results)
}
