package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarc03/tinyweb"
)

// DefaultMaxBodySize caps request bodies for file uploads and API calls.
const DefaultMaxBodySize = 1 << 20

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	CORS CORSConfig
	// MaxBodySize caps uploads and API request bodies (default DefaultMaxBodySize).
	MaxBodySize int64
}

// Handler serves the device routes over net/http so a web UI can be developed
// against a desktop browser: the same storage, the same registered API
// callbacks, full HTTP semantics.
type Handler struct {
	config  HandlerConfig
	storage tinyweb.Storage
	routes  *tinyweb.RouteTable
}

// NewHandler creates a new Handler serving files from storage and API calls
// from routes. routes may be nil.
func NewHandler(config *HandlerConfig, storage tinyweb.Storage, routes *tinyweb.RouteTable) *Handler {
	cfg := *config
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}
	if routes == nil {
		routes = &tinyweb.RouteTable{}
	}
	return &Handler{
		config:  cfg,
		storage: storage,
		routes:  routes,
	}
}

// Router returns an http.Handler with the device routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Use(LowercasePathMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDefaultNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	r.Get(tinyweb.FileListPath, h.handleList)
	r.Get("/routes", h.handleRoutes)

	r.Route(strings.TrimSuffix(tinyweb.FilePrefix, "/"), func(r chi.Router) {
		r.Use(FileNameMiddleware)
		r.Get("/{name}", h.handleGet)
		r.Put("/{name}", h.handlePut)
		r.Delete("/{name}", h.handleDelete)
	})

	r.Route(strings.TrimSuffix(tinyweb.APIPrefix, "/"), func(r chi.Router) {
		r.Get("/*", h.handleAPI(tinyweb.MethodGet))
		r.Put("/*", h.handleAPI(tinyweb.MethodPut))
		r.Post("/*", h.handleAPI(tinyweb.MethodPost))
		r.Delete("/*", h.handleAPI(tinyweb.MethodDelete))
	})

	return r
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	usage, err := h.storage.Usage(r.Context())
	if err != nil {
		usage = tinyweb.Usage{}
	}

	entries, err := h.storage.List(r.Context())
	if err != nil {
		entries = nil
	}

	body := tinyweb.FileListing(usage, entries)
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// routeInfo describes a registered API route.
type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (h *Handler) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	infos := []routeInfo{}
	for _, method := range []tinyweb.Method{tinyweb.MethodGet, tinyweb.MethodPut, tinyweb.MethodPost, tinyweb.MethodDelete} {
		for _, route := range h.routes.Routes(method) {
			infos = append(infos, routeInfo{Method: string(method), Path: route.Path})
		}
	}
	_ = WriteJSON(w, http.StatusOK, infos)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, err := h.storage.Open(r.Context(), name)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer func() { _ = f.Close() }()

	if contentType := tinyweb.ContentTypeFor(name); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size(), 10))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, f)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	f, err := h.storage.Create(r.Context(), name)
	if err != nil {
		HandleError(w, err)
		return
	}

	committed := false
	defer func() {
		if !committed {
			_ = f.Close()
		}
	}()

	if f.Size() != 0 {
		HandleError(w, tinyweb.ErrConflict)
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.config.MaxBodySize)
	if _, err := io.Copy(f, body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Request body too large")
			return
		}
		HandleError(w, err)
		return
	}

	committed = true
	if err := f.Commit(); err != nil {
		HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.storage.Remove(r.Context(), name); err != nil {
		HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleAPI(method tinyweb.Method) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		route, ok := h.routes.Lookup(method, r.URL.Path)
		if !ok || route.Handler == nil {
			WriteError(w, http.StatusNotFound, "not_found", "Route not found")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodySize))
		if err != nil {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Request body too large")
			return
		}

		WriteResponse(w, route.Handler(r.Context(), body))
	}
}
