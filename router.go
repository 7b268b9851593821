package tinyweb

import (
	"context"
	"strings"
)

func (e *Engine) selectRequestMethod() {
	method, ok := ParseMethod(e.req.line.Method)
	if !ok {
		e.req.errState = StateMethodNotAllowed
		return
	}
	e.req.method = method
}

// route dispatches the parsed request. Built-in file paths are checked before
// the registered routes; POST has no built-in paths.
func (e *Engine) route(ctx context.Context, method Method) {
	path := e.req.line.Path

	switch method {
	case MethodGet:
		if path == FileListPath {
			e.serveFileList(ctx)
			return
		}
		if strings.HasPrefix(path, FilePrefix) {
			e.serveGetFile(ctx, path[len(FilePrefix):])
			return
		}
	case MethodPut:
		if strings.HasPrefix(path, FilePrefix) {
			e.servePutFile(ctx, path[len(FilePrefix):])
			return
		}
	case MethodDelete:
		if strings.HasPrefix(path, FilePrefix) {
			e.serveDeleteFile(ctx, path[len(FilePrefix):])
			return
		}
	}

	for _, r := range e.routes.Routes(method) {
		e.log.Debug("compare selector", "route", r.Path)
		if r.Path == path {
			e.log.Debug("route matched", "route", r.Path)
			e.serveAPI(ctx, r.Handler)
			return
		}
	}

	e.req.errState = StateNotFound
}
