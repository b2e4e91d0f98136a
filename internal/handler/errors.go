package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"catalog/internal/domain"
	"catalog/internal/httputil"
)

const forbiddenMessage = "You don't have permission to modify this instrument"

// handleError converts domain errors to HTTP responses.
// Auth failures are reported as 400, like any other bad request. Errors outside
// the domain taxonomy also map to 400 with their message, and are logged.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, forbiddenMessage)
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r.Context()),
		)
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	}
}
