package clientcli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sagarc03/tinyweb"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 10 * time.Second

// Client performs operations against a tinyweb device or its dev mirror.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:     &Config{Endpoint: strings.TrimSuffix(cfg.Endpoint, "/")},
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Endpoint returns the normalized endpoint the client talks to.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// Upload stores local file(s) on the device. Files are write-once: a name
// that already holds data is reported as ErrConflict.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyLocalPath)
	}
	if opts.Dir {
		return c.uploadDir(ctx, opts.LocalPath)
	}

	name := opts.Name
	if name == "" {
		name = RemoteName(opts.LocalPath)
	}
	result, err := c.uploadSingle(ctx, opts.LocalPath, name)
	if err != nil {
		return nil, err
	}
	return []UploadResult{result}, nil
}

// uploadDir uploads every regular file directly inside dir. The device
// namespace is flat, so subdirectories are skipped.
func (c *Client) uploadDir(ctx context.Context, dir string) ([]UploadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	results := make([]UploadResult, 0, len(entries))
	for _, entry := range entries {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, ctxErr
		}
		if !entry.Type().IsRegular() {
			continue
		}

		localPath := filepath.Join(dir, entry.Name())
		name := RemoteName(localPath)
		result, uploadErr := c.uploadSingle(ctx, localPath, name)
		if uploadErr != nil {
			result = UploadResult{LocalPath: localPath, Name: name, Err: uploadErr}
		}
		results = append(results, result)
	}

	return results, nil
}

func (c *Client) uploadSingle(ctx context.Context, localPath, name string) (UploadResult, error) {
	if !tinyweb.IsLegalFileName(name) {
		return UploadResult{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return UploadResult{}, fmt.Errorf("stat file: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, c.fileURL(name), file)
	if err != nil {
		return UploadResult{}, err
	}
	req.ContentLength = info.Size()

	if _, err := c.do(req); err != nil {
		return UploadResult{}, err
	}

	return UploadResult{
		LocalPath: localPath,
		Name:      name,
		Size:      info.Size(),
	}, nil
}

// Download fetches a file from the device.
// If opts.LocalPath is "-", the content is returned via the io.ReadCloser and must be closed by the caller.
// Otherwise, the content is written to the file and the io.ReadCloser is nil.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	if opts.Name == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyName)
	}
	if !tinyweb.IsLegalFileName(opts.Name) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidName, opts.Name)
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.fileURL(opts.Name), http.NoBody)
	if err != nil {
		return nil, nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, nil, parseServerError(resp.StatusCode, body)
	}

	result := &DownloadResult{
		Name:        opts.Name,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}

	if opts.LocalPath == "-" {
		result.LocalPath = "-"
		return result, resp.Body, nil
	}

	localPath := opts.LocalPath
	if localPath == "" {
		localPath = opts.Name
	}
	result.LocalPath = localPath

	dir := filepath.Dir(localPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			_ = resp.Body.Close()
			return nil, nil, fmt.Errorf("create directory: %w", mkdirErr)
		}
	}

	file, createErr := os.Create(localPath) //#nosec G304 -- localPath is user-provided input
	if createErr != nil {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("create file: %w", createErr)
	}

	written, copyErr := io.Copy(file, resp.Body)
	_ = resp.Body.Close()
	if copyErr != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("write file: %w", copyErr)
	}

	if closeErr := file.Close(); closeErr != nil {
		return nil, nil, fmt.Errorf("close file: %w", closeErr)
	}

	result.Size = written
	return result, nil, nil
}

// Delete removes one or more files from the device.
// Continues on error, collecting results for all names.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if len(opts.Names) == 0 {
		return nil, ErrNoNames
	}

	results := make([]DeleteResult, 0, len(opts.Names))
	for _, name := range opts.Names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, c.deleteSingle(ctx, name))
	}

	return results, nil
}

func (c *Client) deleteSingle(ctx context.Context, name string) DeleteResult {
	if !tinyweb.IsLegalFileName(name) {
		return DeleteResult{Name: name, Err: fmt.Errorf("%w: %q", ErrInvalidName, name)}
	}

	req, err := c.newRequest(ctx, http.MethodDelete, c.fileURL(name), http.NoBody)
	if err != nil {
		return DeleteResult{Name: name, Err: err}
	}

	if _, err := c.do(req); err != nil {
		return DeleteResult{Name: name, Err: err}
	}
	return DeleteResult{Name: name, Deleted: true}
}

// HasDeleteErrors returns true if any delete operation failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// HasUploadErrors returns true if any upload failed.
func HasUploadErrors(results []UploadResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// List fetches and parses the device file listing.
func (c *Client) List(ctx context.Context) (*ListResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.config.Endpoint+tinyweb.FileListPath, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return ParseFileListing(string(resp.body))
}

// Call invokes a registered API route and returns its reply. Route may be
// given with or without the /api/ prefix.
func (c *Client) Call(ctx context.Context, opts CallOptions) (*CallResult, error) {
	method, ok := tinyweb.ParseMethod(strings.ToUpper(opts.Method))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, opts.Method)
	}

	route := strings.TrimPrefix(opts.Route, "/")
	route = strings.TrimPrefix(route, strings.TrimPrefix(tinyweb.APIPrefix, "/"))
	path := tinyweb.RoutePath(route)

	var body io.Reader = http.NoBody
	if len(opts.Body) > 0 {
		body = bytes.NewReader(opts.Body)
	}

	req, err := c.newRequest(ctx, string(method), c.config.Endpoint+path, body)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return &CallResult{
		Method:      string(method),
		Path:        path,
		StatusCode:  resp.statusCode,
		ContentType: resp.contentType,
		Body:        resp.body,
	}, nil
}

// TotalSize calculates the total size of all listed files in bytes.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// ParseFileListing parses the plain-text listing served at /filelist.
func ParseFileListing(body string) (*ListResult, error) {
	scanner := bufio.NewScanner(strings.NewReader(body))

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedList)
	}

	result := &ListResult{Files: []FileInfo{}}
	header := strings.TrimSuffix(scanner.Text(), "\r")
	if _, err := fmt.Sscanf(header, "%d bytes available of %d", &result.Available, &result.Total); err != nil {
		return nil, fmt.Errorf("%w: header %q", ErrMalformedList, header)
	}

	inFiles := false
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		switch {
		case !inFiles && line == "":
			continue
		case !inFiles && line == "Files:":
			inFiles = true
			continue
		case !inFiles:
			return nil, fmt.Errorf("%w: unexpected line %q", ErrMalformedList, line)
		case line == "":
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: entry %q", ErrMalformedList, line)
		}
		size, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: size in %q", ErrMalformedList, line)
		}
		result.Files = append(result.Files, FileInfo{Name: fields[0], Size: size})
	}

	if !inFiles {
		return nil, fmt.Errorf("%w: missing Files: section", ErrMalformedList)
	}
	return result, nil
}

// RemoteName derives a device file name from a local path: the lower-cased
// base name.
func RemoteName(localPath string) string {
	base := filepath.Base(filepath.ToSlash(localPath))
	if base == "." || base == "/" {
		return ""
	}
	return strings.ToLower(base)
}

func (c *Client) fileURL(name string) string {
	return c.config.Endpoint + tinyweb.FilePrefix + name
}

// newRequest builds a request that never reuses the connection; the device
// closes every connection after one response.
func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Close = true
	return req, nil
}

type response struct {
	statusCode  int
	contentType string
	body        []byte
}

// do executes req and reads the whole body. Any status other than 200 is
// returned as an *APIError.
func (c *Client) do(req *http.Request) (*response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseServerError(resp.StatusCode, body)
	}

	return &response{
		statusCode:  resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}, nil
}

func parseServerError(statusCode int, body []byte) error {
	return &APIError{
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// APIError represents an error response from the device.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := "device error: " + strconv.Itoa(e.StatusCode) + " " + http.StatusText(e.StatusCode)
	if e.Body != "" {
		msg += " - " + strings.TrimSpace(e.Body)
	}
	return msg
}

// Is reports whether target is an *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

// IsNotFound returns true if the error is a 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Sentinel errors for the status codes a device answers with.
// Use errors.Is() to check for these conditions.
var (
	ErrBadRequest       = &APIError{StatusCode: http.StatusBadRequest}
	ErrNotFound         = &APIError{StatusCode: http.StatusNotFound}
	ErrMethodNotAllowed = &APIError{StatusCode: http.StatusMethodNotAllowed}
	ErrNotAcceptable    = &APIError{StatusCode: http.StatusNotAcceptable}
	ErrConflict         = &APIError{StatusCode: http.StatusConflict}
	ErrInternal         = &APIError{StatusCode: http.StatusInternalServerError}
)
