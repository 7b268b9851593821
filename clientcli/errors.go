package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for configuration validation.
var (
	ErrConfigRequired  = errors.New("config is required")
	ErrInvalidEndpoint = errors.New("endpoint must be an http or https URL")
)

// Errors for input validation.
var (
	ErrNoNames        = errors.New("no file names provided")
	ErrEmptyName      = errors.New("file name is required")
	ErrInvalidName    = errors.New("file name must use [0-9a-z.] with at most one dot")
	ErrInvalidMethod  = errors.New("method must be GET, PUT, POST or DELETE")
	ErrMalformedList  = errors.New("malformed file listing")
	ErrEmptyLocalPath = errors.New("local path is required")
)
