package handler

import (
	"encoding/json"
	"net/http"

	"github.com/classiflow/classiflow-go/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// actionSuccess builds the success envelope of an auth action.
func actionSuccess(user *model.SessionUser) model.ActionResult {
	return model.ActionResult{Success: true, User: user}
}

// actionFailure builds the failure envelope with field-level errors.
func actionFailure(fields map[string][]string) model.ActionResult {
	return model.ActionResult{Success: false, Errors: fields}
}

// fieldErrors is shorthand for a single-field failure.
func fieldErrors(field, message string) map[string][]string {
	return map[string][]string{field: {message}}
}

// formErrors is shorthand for a form-level failure.
func formErrors(message string) map[string][]string {
	return fieldErrors(model.FormErrorKey, message)
}
