package tinyweb

import "errors"

var (
	// ErrNotFound is returned when a file does not exist in storage
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would overwrite existing content
	ErrConflict = errors.New("conflict")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrRoutesLocked is returned when routes are registered after serving began
	ErrRoutesLocked = errors.New("routes locked: engine already serving")
	// ErrMalformedRequestLine is returned when a request line does not have exactly three tokens
	ErrMalformedRequestLine = errors.New("malformed request line")
)
