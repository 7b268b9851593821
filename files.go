package tinyweb

import (
	"context"
	"errors"
	"io"
)

// serveFileList answers with a plain-text listing of storage. Storage errors
// produce an empty listing rather than an error response.
func (e *Engine) serveFileList(ctx context.Context) {
	usage, err := e.storage.Usage(ctx)
	if err != nil {
		e.log.Warn("storage usage failed", "err", err)
		usage = Usage{}
	}

	entries, err := e.storage.List(ctx)
	if err != nil {
		e.log.Warn("storage list failed", "err", err)
		entries = nil
	}

	body := FileListing(usage, entries)

	e.drainClient()
	rw := e.newResponseWriter()
	rw.printf("HTTP/1.1 200 OK\r\nContent-Length: %d\r\nContent-Type: text/plain\r\n\r\n", len(body))
	rw.writeString(body)
	rw.done()
}

// serveGetFile streams a stored file in FileChunkSize pieces. Content-Length
// is the size at open time; a file that shrinks while streaming is cut short.
func (e *Engine) serveGetFile(ctx context.Context, name string) {
	if !IsLegalFileName(name) {
		e.req.errState = StateNotAcceptable
		return
	}
	if name == "" {
		e.req.errState = StateNotFound
		return
	}

	exists, err := e.storage.Exists(ctx, name)
	if err != nil {
		e.log.Error("storage exists failed", "name", name, "err", err)
		e.req.errState = StateInternalServerError
		return
	}
	if !exists {
		e.req.errState = StateNotFound
		return
	}

	f, err := e.storage.Open(ctx, name)
	if err != nil {
		e.log.Error("failed to open file", "name", name, "err", err)
		e.req.errState = StateInternalServerError
		return
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			e.log.Warn("failed to close file", "name", name, "err", closeErr)
		}
	}()

	e.drainClient()
	rw := e.newResponseWriter()
	rw.printf("HTTP/1.1 200 OK\r\nContent-Length: %d\r\n", f.Size())
	if contentType := ContentTypeFor(name); contentType != "" {
		rw.printf("Content-Type: %s\r\n", contentType)
	}
	rw.writeString("\r\n")

	remaining := f.Size()
	for remaining > 0 && rw.err == nil {
		n := int(min(remaining, int64(len(e.chunk))))
		read, readErr := io.ReadFull(f, e.chunk[:n])
		rw.write(e.chunk[:read])
		if readErr != nil {
			e.log.Warn("file ended early", "name", name, "missing", remaining-int64(read), "err", readErr)
			break
		}
		remaining -= int64(read)
	}
	rw.done()
}

// servePutFile stores the pending request bytes under name. Existing
// non-empty files are never overwritten.
func (e *Engine) servePutFile(ctx context.Context, name string) {
	if !IsLegalFileName(name) {
		e.req.errState = StateNotAcceptable
		return
	}

	f, err := e.storage.Create(ctx, name)
	if err != nil {
		e.log.Error("failed to open file for writing", "name", name, "err", err)
		e.req.errState = StateInternalServerError
		return
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if closeErr := f.Close(); closeErr != nil {
			e.log.Warn("failed to discard file", "name", name, "err", closeErr)
		}
	}()

	if f.Size() != 0 {
		e.log.Info("file already contains data", "name", name, "size", f.Size())
		e.req.errState = StateConflict
		return
	}

	var written int64
	for {
		n := e.readAvailable(e.chunk)
		if n == 0 {
			break
		}
		if _, err := f.Write(e.chunk[:n]); err != nil {
			e.log.Error("failed to write file", "name", name, "err", err)
			e.req.errState = StateInternalServerError
			return
		}
		written += int64(n)
	}

	committed = true
	if err := f.Commit(); err != nil {
		e.log.Error("failed to commit file", "name", name, "err", err)
		e.req.errState = StateInternalServerError
		return
	}
	e.log.Info("stored file", "name", name, "bytes", written)

	rw := e.newResponseWriter()
	rw.writeString("HTTP/1.1 200 OK\r\nConnection: Closed\r\n\r\n")
	rw.done()
}

func (e *Engine) serveDeleteFile(ctx context.Context, name string) {
	if !IsLegalFileName(name) {
		e.req.errState = StateNotAcceptable
		return
	}
	if name == "" {
		e.req.errState = StateNotFound
		return
	}

	exists, err := e.storage.Exists(ctx, name)
	if err != nil {
		e.log.Error("storage exists failed", "name", name, "err", err)
		e.req.errState = StateInternalServerError
		return
	}
	if !exists {
		e.req.errState = StateNotFound
		return
	}

	if err := e.storage.Remove(ctx, name); err != nil {
		if errors.Is(err, ErrNotFound) {
			e.req.errState = StateNotFound
			return
		}
		e.log.Error("failed to remove file", "name", name, "err", err)
		e.req.errState = StateInternalServerError
		return
	}
	e.log.Info("removed file", "name", name)

	e.drainClient()
	rw := e.newResponseWriter()
	rw.writeString("HTTP/1.1 200 OK\r\nConnection: Closed\r\n\r\n")
	rw.done()
}
