package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/sagarc03/tinyweb"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	if errors.Is(err, tinyweb.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "not_found", "File not found")
		return
	}

	if errors.Is(err, tinyweb.ErrConflict) {
		WriteError(w, http.StatusConflict, "conflict", "File already has content")
		return
	}

	if errors.Is(err, tinyweb.ErrInvalidInput) {
		WriteError(w, http.StatusNotAcceptable, "invalid_name", "Invalid file name")
		return
	}

	// Default internal error
	WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

// WriteResponse writes the result of an API callback.
func WriteResponse(w http.ResponseWriter, resp tinyweb.Response) {
	if resp.Error != tinyweb.StateNone {
		code := StatusCode(resp.Error)
		WriteError(w, code, strings.ReplaceAll(resp.Error.String(), " ", "_"), http.StatusText(code))
		return
	}

	switch resp.Type {
	case tinyweb.ResponseEmpty:
		w.WriteHeader(http.StatusOK)
	case tinyweb.ResponseJSON, tinyweb.ResponseText:
		w.Header().Set("Content-Type", resp.Type.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(resp.Body)
	default:
		slog.Error("response type out of bounds", "type", uint8(resp.Type))
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
