package http

import (
	"net/http"
	"strings"

	"github.com/sagarc03/tinyweb"
)

// LowercasePathMiddleware lower-cases the request path before routing, the
// way the device does after parsing the request line.
func LowercasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.ToLower(r.URL.Path)
		r.URL.RawPath = ""
		next.ServeHTTP(w, r)
	})
}

// FileNameMiddleware rejects /file/ requests whose name the device would not
// accept.
func FileNameMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, ok := strings.CutPrefix(r.URL.Path, tinyweb.FilePrefix)
		if !ok || !tinyweb.IsLegalFileName(name) {
			WriteError(w, http.StatusNotAcceptable, "invalid_name", "Invalid file name")
			return
		}

		next.ServeHTTP(w, r)
	})
}
