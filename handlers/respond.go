package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ars-patel/TaskHub-Backend/logging"
	"github.com/ars-patel/TaskHub-Backend/models"
	"github.com/ars-patel/TaskHub-Backend/services"
)

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// writeError maps service-layer sentinel errors onto the HTTP error taxonomy.
// Anything unrecognized is an internal error; its detail is surfaced to the
// caller alongside the generic message.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, "User already exists")
	case errors.Is(err, services.ErrInvalidInviteToken):
		writeMessage(w, http.StatusBadRequest, "Invalid invite token")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrOldPasswordRequired):
		writeMessage(w, http.StatusBadRequest, "Old password is required to change password")
	case errors.Is(err, services.ErrOldPasswordIncorrect):
		writeMessage(w, http.StatusUnauthorized, "Old password is incorrect")
	case errors.Is(err, services.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrTaskNotFound):
		writeMessage(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, services.ErrCommentNotFound):
		writeMessage(w, http.StatusNotFound, "Comment not found")
	case errors.Is(err, services.ErrCommentTaskMismatch):
		writeMessage(w, http.StatusBadRequest, "Comment does not belong to this task")
	case errors.Is(err, services.ErrNotAuthorized):
		writeMessage(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, models.ErrNoTenant):
		writeMessage(w, http.StatusUnauthorized, "Not authorized")
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: Unhandled error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Server error", Error: err.Error()})
	}
}
