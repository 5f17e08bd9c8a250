package handler

import (
	"errors"
	"net/http"

	"chatdesk/internal/domain"
	"chatdesk/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		httputil.RespondError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrUnauthenticated):
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrInvalidToken):
		httputil.RespondError(w, http.StatusForbidden, "invalid or expired token")
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPayloadTooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrUnsupportedType):
		httputil.RespondError(w, http.StatusUnsupportedMediaType, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
