// Package handler implements the HTTP layer: request parsing, response
// shaping, and the mapping from domain errors to status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/flashcard-studio/internal/apperror"
)

// ErrorResponse is the standard error envelope returned by the API:
//
//	{"status":"error","error":"validation_error","message":"..."}
//
// Every error response has the same shape, so clients parse one format
// regardless of status code. The flashcard endpoint adds an empty
// "flashcards" list on top of this (see flashcards.go) to keep its
// original client contract.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body — once Encode starts
// writing, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorStatus maps a domain error to its HTTP status, machine-readable
// kind, and client-facing message.
//
// The service layer returns apperror values; this is the single place they
// become HTTP. Note the deliberate asymmetry on 500s: upstream-dependency
// failures surface their raw error text (the original contract — no
// redaction), while unknown internal errors stay generic.
func errorStatus(err error) (int, string, string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			return http.StatusBadRequest, "validation_error", appErr.Message
		case errors.Is(err, apperror.ErrUnauthorized):
			return http.StatusUnauthorized, "unauthorized", appErr.Message
		case errors.Is(err, apperror.ErrNotFound):
			return http.StatusNotFound, "not_found", appErr.Message
		case errors.Is(err, apperror.ErrConflict):
			return http.StatusConflict, "conflict", appErr.Message
		case errors.Is(err, apperror.ErrUpstream):
			return http.StatusInternalServerError, "upstream_error", appErr.Message
		}
	}

	return http.StatusInternalServerError, "internal_error", "An internal error occurred"
}

// writeError maps a domain error to HTTP and sends the standard envelope.
func writeError(w http.ResponseWriter, err error) {
	status, kind, message := errorStatus(err)
	writeJSON(w, status, ErrorResponse{
		Status:  "error",
		Error:   kind,
		Message: message,
	})
}
