// Package tinyweb provides a step-driven HTTP server engine for devices that
// run a single cooperative loop and cannot block on network I/O.
//
// The Engine services one connection at a time. Each call to Advance performs
// at most one state transition (accept, read header, parse, select method,
// process, end), so the caller can refresh displays or poll sensors between
// steps. The only suspension inside a step is the header read, which yields
// while waiting for bytes and gives up after Config.ReadTimeout.
//
// # Key Components
//
//   - Engine: the step engine, router and response writer
//   - Listener, Conn: the non-blocking transport the engine drives
//   - Storage: the flat file store behind the built-in /file routes
//   - RouteTable: API callbacks registered under /api/ per method
//
// # Built-in Routes
//
//   - GET /filelist: plain-text listing with free and total space
//   - GET /file/<name>: stream a stored file
//   - PUT /file/<name>: store the request body; existing files are never overwritten
//   - DELETE /file/<name>: remove a stored file
//
// File names are limited to lower-case letters, digits and a single '.'.
//
// # Example Usage
//
//	engine, err := tinyweb.NewEngine(listener, storage, tinyweb.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = engine.SetGetHandlers(tinyweb.Route{
//	    Path: "status",
//	    Handler: func(ctx context.Context, body []byte) tinyweb.Response {
//	        return tinyweb.JSON([]byte(`{"ok":true}`))
//	    },
//	})
//
//	for {
//	    engine.Advance(ctx)
//	    refreshDisplay()
//	}
//
// See the transport/tcp package for a socket transport and the filesystem and
// database packages for storage backends.
package tinyweb
