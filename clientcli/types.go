package clientcli

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath string
	Name      string // optional, derived from LocalPath if empty
	Dir       bool   // upload every regular file directly inside LocalPath
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string `json:"local_path"`
	Name      string `json:"name"`
	Size      int64  `json:"size_bytes"`
	Err       error  `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	Name      string
	LocalPath string // empty = derive from name, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	Name        string `json:"name"`
	LocalPath   string `json:"local_path"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size_bytes"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	Names []string
}

// DeleteResult represents the result of deleting a single file.
type DeleteResult struct {
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// ListResult is the parsed device file listing.
type ListResult struct {
	Available int64      `json:"available_bytes"`
	Total     int64      `json:"total_bytes"`
	Files     []FileInfo `json:"files"`
}

// FileInfo describes one stored file.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size_bytes"`
}

// CallOptions configures a call to a registered API route.
type CallOptions struct {
	Method string
	Route  string // with or without the /api/ prefix
	Body   []byte
}

// CallResult holds the raw reply of an API route.
type CallResult struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	StatusCode  int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"-"`
}
