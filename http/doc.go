// Package http mirrors the device routes on a regular net/http server.
//
// The step engine in package tinyweb speaks a deliberately small HTTP subset:
// no keep-alive, no chunked bodies, one client at a time. That is fine for a
// device but awkward when building its web UI on a desktop. This package serves
// the same storage and the same registered API callbacks through chi, so a
// browser, dev proxy or test suite can talk to it with full HTTP semantics.
//
// # Routes
//
//   - GET /filelist: plain-text storage listing, byte-identical to the device
//   - GET /file/{name}: stored file with the device's Content-Type table
//   - PUT /file/{name}: write-once upload (409 when the file has content)
//   - DELETE /file/{name}: remove a file
//   - GET|PUT|POST|DELETE /api/*: registered tinyweb routes
//   - GET /routes: JSON list of registered API routes
//
// Paths are lower-cased before routing and file names are validated with
// tinyweb.IsLegalFileName, as on the device. Errors are JSON bodies:
//
//	{"error": "not_found", "message": "File not found"}
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{
//	    CORS: http.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
//	}, storage, engine.Routes())
//	http.ListenAndServe(":8081", handler.Router())
package http
