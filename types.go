package tinyweb

import (
	"context"
	"fmt"
)

// ErrorState is the per-connection failure indicator. Once it is set, normal
// processing halts and only the error handler runs until the connection closes.
type ErrorState uint8

const (
	StateNone ErrorState = iota
	StateReadTimeout
	StateBadRequest
	StateMethodNotAllowed
	StateNotAcceptable
	StateConflict
	StateNotFound
	StateInternalServerError
)

var errorStateNames = [...]string{
	StateNone:                "none",
	StateReadTimeout:         "read timeout",
	StateBadRequest:          "bad request",
	StateMethodNotAllowed:    "method not allowed",
	StateNotAcceptable:       "not acceptable",
	StateConflict:            "conflict",
	StateNotFound:            "not found",
	StateInternalServerError: "internal server error",
}

func (e ErrorState) String() string {
	if int(e) < len(errorStateNames) {
		return errorStateNames[e]
	}
	return fmt.Sprintf("ErrorState(%d)", uint8(e))
}

// StatusLine returns the status code and reason written for e, or "" when
// nothing is written (StateNone, StateReadTimeout and unknown values).
func (e ErrorState) StatusLine() string {
	switch e {
	case StateBadRequest:
		return "400 Bad Request"
	case StateMethodNotAllowed:
		return "405 Method Not Allowed"
	case StateNotAcceptable:
		return "406 Not Acceptable"
	case StateConflict:
		return "409 Conflict"
	case StateNotFound:
		return "404 Not Found"
	case StateInternalServerError:
		return "500 Internal Server Error"
	default:
		return ""
	}
}

// ResponseType tags the body of an API response.
type ResponseType uint8

const (
	ResponseEmpty ResponseType = iota
	ResponseJSON
	ResponseText
)

func (t ResponseType) String() string {
	switch t {
	case ResponseEmpty:
		return "empty"
	case ResponseJSON:
		return "json"
	case ResponseText:
		return "text"
	default:
		return fmt.Sprintf("ResponseType(%d)", uint8(t))
	}
}

// ContentType returns the Content-Type header value for t, or "" for
// ResponseEmpty and unknown values.
func (t ResponseType) ContentType() string {
	switch t {
	case ResponseJSON:
		return "application/json"
	case ResponseText:
		return "text/plain"
	default:
		return ""
	}
}

// Response is the result of an API callback. When Error is not StateNone,
// Type and Body are ignored.
type Response struct {
	Error ErrorState
	Type  ResponseType
	Body  []byte
}

// JSON returns a 200 response carrying body as application/json.
func JSON(body []byte) Response {
	return Response{Type: ResponseJSON, Body: body}
}

// Text returns a 200 response carrying body as text/plain.
func Text(body string) Response {
	return Response{Type: ResponseText, Body: []byte(body)}
}

// Empty returns a 200 response without a body.
func Empty() Response {
	return Response{Type: ResponseEmpty}
}

// Fail returns a response that makes the engine answer with the status mapped to state.
func Fail(state ErrorState) Response {
	return Response{Error: state}
}

// HandlerFunc is an application callback bound to an API route. body holds
// the request bytes that were available when the route matched.
type HandlerFunc func(ctx context.Context, body []byte) Response

// Method is one of the request methods the engine dispatches.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPut    Method = "PUT"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"
)

// ParseMethod matches token case-sensitively against the supported methods.
func ParseMethod(token string) (Method, bool) {
	switch Method(token) {
	case MethodGet, MethodPut, MethodPost, MethodDelete:
		return Method(token), true
	default:
		return "", false
	}
}

// RequestLine holds the three tokens of an HTTP request line.
type RequestLine struct {
	Method string
	Path   string
	Proto  string
}

// FileEntry describes a single stored file.
type FileEntry struct {
	Name string
	Size int64
}

// Usage reports storage capacity in bytes.
type Usage struct {
	Total int64
	Used  int64
}

// Free returns the number of unused bytes, never negative.
func (u Usage) Free() int64 {
	if u.Used >= u.Total {
		return 0
	}
	return u.Total - u.Used
}
