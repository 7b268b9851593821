package tinyweb

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// APIPrefix namespaces every registered route.
	APIPrefix = "/api/"
	// FilePrefix selects the built-in file handlers.
	FilePrefix = "/file/"
	// FileListPath serves the storage listing.
	FileListPath = "/filelist"
)

// IsLegalFileName validates a storage name taken from a /file/ request path.
// It checks that the name:
//   - only contains lower-case ASCII letters, digits and '.'
//   - contains at most one '.'
//
// This rejects separators and traversal sequences before a name reaches storage.
// The empty name is legal and simply never exists.
func IsLegalFileName(name string) bool {
	periodFound := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z':
		case c == '.':
			if periodFound {
				return false
			}
			periodFound = true
		default:
			return false
		}
	}
	return true
}

// ContentTypeFor returns the Content-Type served for name, or "" when the
// extension is not one the engine announces.
func ContentTypeFor(name string) string {
	switch {
	case strings.HasSuffix(name, ".html"), strings.HasSuffix(name, ".htm"):
		return "text/html"
	case strings.HasSuffix(name, ".jpg"), strings.HasSuffix(name, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(name, ".png"):
		return "image/png"
	case strings.HasSuffix(name, ".js"):
		return "application/javascript"
	default:
		return ""
	}
}

// RoutePath returns the stored form of a registered route path: namespaced
// under APIPrefix and lower-cased.
func RoutePath(suffix string) string {
	return strings.ToLower(APIPrefix + strings.TrimPrefix(suffix, "/"))
}

// FileListing renders the plain-text storage listing served at FileListPath.
func FileListing(usage Usage, entries []FileEntry) string {
	var body strings.Builder
	fmt.Fprintf(&body, "%d bytes available of %d\r\n\r\nFiles:\r\n", usage.Free(), usage.Total)
	for _, entry := range entries {
		body.WriteString("    ")
		body.WriteString(entry.Name)
		body.WriteString("    ")
		body.WriteString(strconv.FormatInt(entry.Size, 10))
		body.WriteString("\r\n")
	}
	return body.String()
}
