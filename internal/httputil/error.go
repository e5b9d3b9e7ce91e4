package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteError picks the status from the error: invalid input is the caller's
// fault, anything else is ours.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, bracket.ErrInvalidInput):
		BadRequest(w, err.Error(), nil)
	case errors.As(err, &maxBytes):
		slog.Warn("request body too large", "path", r.URL.Path, "limit", maxBytes.Limit)
		writeErrorJSON(w, http.StatusRequestEntityTooLarge, "Request body too large")
	default:
		InternalServerError(w, "request failed", err, "path", r.URL.Path)
	}
}

func InternalServerError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	slog.Error(msg, append([]any{"error", err}, attrs...)...)
	writeErrorJSON(w, http.StatusInternalServerError, "Internal Server Error")
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	writeErrorJSON(w, http.StatusBadRequest, msg)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	writeErrorJSON(w, http.StatusNotFound, msg)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
	writeErrorJSON(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed on "+r.URL.Path)
}

func TooManyRequests(w http.ResponseWriter, client string) {
	slog.Warn("rate limit exceeded", "client", client)
	writeErrorJSON(w, http.StatusTooManyRequests, "Rate limit exceeded. Please slow down.")
}

func writeErrorJSON(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorResponse{Success: false, Message: msg})
}
