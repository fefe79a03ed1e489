package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/logger"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps the service layer's errors onto HTTP statuses.
// Unrecognized errors are logged and reported as a generic 500 so
// internal details never leak to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	var insufficient *service.InsufficientPointsError
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":     "insufficient points",
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrOrderNotPaid),
		errors.Is(err, service.ErrReturnNotPending),
		errors.Is(err, service.ErrPointsExceedTotal):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writePointsCheckoutFailure reports a failed points checkout. This
// endpoint's contract carries an explicit success flag next to the
// error message, with statuses limited to 400, 404 and 500.
func writePointsCheckoutFailure(w http.ResponseWriter, err error) {
	var insufficient *service.InsufficientPointsError
	status := http.StatusInternalServerError
	body := map[string]any{"success": false}
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		body["error"] = "not found"
	case errors.As(err, &insufficient):
		status = http.StatusBadRequest
		body["error"] = "insufficient points"
		body["required"] = insufficient.Required
		body["available"] = insufficient.Available
	case errors.Is(err, service.ErrOrderNotPending):
		status = http.StatusBadRequest
		body["error"] = err.Error()
	default:
		logger.Error("Points checkout failed", "error", err)
		body["error"] = "internal server error"
	}
	writeJSON(w, status, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
