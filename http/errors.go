package http

import (
	"net/http"

	"github.com/sagarc03/tinyweb"
)

// StatusCode maps an engine error state onto the HTTP status the device sends.
// StateReadTimeout has no status on the device; it is reported as 408 here.
func StatusCode(state tinyweb.ErrorState) int {
	switch state {
	case tinyweb.StateNone:
		return http.StatusOK
	case tinyweb.StateReadTimeout:
		return http.StatusRequestTimeout
	case tinyweb.StateBadRequest:
		return http.StatusBadRequest
	case tinyweb.StateMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case tinyweb.StateNotAcceptable:
		return http.StatusNotAcceptable
	case tinyweb.StateConflict:
		return http.StatusConflict
	case tinyweb.StateNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
