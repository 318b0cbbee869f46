package http

import (
	"errors"
	"net/http"

	"beverage-quiz-service/internal/backend"
	"beverage-quiz-service/internal/domain"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorStatus maps service errors onto an HTTP status and a stable code that
// REST and WebSocket clients can switch on.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, domain.ErrUnknownMode):
		return http.StatusBadRequest, "unknown_mode"
	case errors.Is(err, domain.ErrCategoryRequired):
		return http.StatusBadRequest, "category_required"
	case errors.Is(err, domain.ErrInvalidOption):
		return http.StatusBadRequest, "invalid_option"
	case errors.Is(err, domain.ErrEmptyCandidatePool):
		return http.StatusUnprocessableEntity, "no_data"
	case errors.Is(err, domain.ErrSessionCompleted):
		return http.StatusConflict, "session_completed"
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusConflict, "session_closed"
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrAlreadyAnswered):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, backend.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "backend_unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func newErrorPayload(err error) errorPayload {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	return errorPayload{Code: code, Message: msg}
}
