package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	tinyhttp "github.com/sagarc03/tinyweb/http"
)

func TestLowercasePathMiddleware(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/API/Led", nil)
	rec := httptest.NewRecorder()
	tinyhttp.LowercasePathMiddleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, "/api/led", seen)
}

func TestFileNameMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	wrapped := tinyhttp.FileNameMiddleware(handler)

	tests := []struct {
		Name string
		Path string
		Want int
	}{
		{Name: "legal", Path: "/file/index.html", Want: http.StatusOK},
		{Name: "no extension", Path: "/file/readme", Want: http.StatusOK},
		{Name: "two dots", Path: "/file/a..b", Want: http.StatusNotAcceptable},
		{Name: "upper case", Path: "/file/A.txt", Want: http.StatusNotAcceptable},
		{Name: "nested", Path: "/file/a/b", Want: http.StatusNotAcceptable},
		{Name: "outside file prefix", Path: "/other/a.txt", Want: http.StatusNotAcceptable},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.Path, nil)
			rec := httptest.NewRecorder()

			wrapped.ServeHTTP(rec, req)

			assert.Equal(t, tt.Want, rec.Code)
		})
	}
}
