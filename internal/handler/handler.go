// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/waxlog/waxlog/internal/apperr"
	"github.com/waxlog/waxlog/internal/handler/dto"
	"github.com/waxlog/waxlog/internal/middleware"
	"github.com/waxlog/waxlog/internal/validate"
)

// Handler serves the endpoints that belong to no resource.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles requests no route matched.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Unknown endpoint"})
}

// MethodNotAllowed gets the same response as an unknown path: the router
// either matches a handler or the endpoint is unknown.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Unknown endpoint"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError is the single failure-to-response mapping. Known
// application errors pass through with their status and message; anything
// else is logged with full detail and surfaced as a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}

	if appErr.Kind == apperr.KindInternal {
		logger.Error("internal error",
			slog.String("error", appErr.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}

	writeJSON(w, appErr.Status(), dto.ErrorResponse{Error: appErr.Message})
}

// validationError folds a violation list into one 400 error carrying
// every field-level message.
func validationError(violations []validate.Violation) *apperr.Error {
	return apperr.Validation(strings.Join(validate.Messages(violations), "; "))
}
