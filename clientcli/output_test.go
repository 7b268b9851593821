package clientcli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sagarc03/tinyweb/clientcli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter(t *testing.T) {
	t.Run("json formatter", func(t *testing.T) {
		_, ok := clientcli.NewFormatter(true, false).(*clientcli.JSONFormatter)
		assert.True(t, ok)
	})

	t.Run("human formatter quiet", func(t *testing.T) {
		hf, ok := clientcli.NewFormatter(false, true).(*clientcli.HumanFormatter)
		require.True(t, ok)
		assert.True(t, hf.Quiet)
	})
}

func TestHumanFormatter_FormatUpload(t *testing.T) {
	results := []clientcli.UploadResult{
		{LocalPath: "site/index.html", Name: "index.html", Size: 2048},
		{LocalPath: "site/Bad_Name.txt", Name: "bad_name.txt", Err: clientcli.ErrInvalidName},
	}

	t.Run("verbose", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatUpload(&buf, results))
		assert.Contains(t, buf.String(), "Uploaded: site/index.html -> index.html (2.0 KB)")
		assert.Contains(t, buf.String(), "Error: site/Bad_Name.txt")
	})

	t.Run("quiet shows only errors", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatUpload(&buf, results))
		assert.NotContains(t, buf.String(), "Uploaded")
		assert.Contains(t, buf.String(), "Error:")
	})
}

func TestHumanFormatter_FormatDownload(t *testing.T) {
	var buf bytes.Buffer
	result := &clientcli.DownloadResult{Name: "logo.png", LocalPath: "out/logo.png", ContentType: "image/png", Size: 10}
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatDownload(&buf, result))
	assert.Equal(t, "Downloaded: logo.png -> out/logo.png (10 B)\n  Content-Type: image/png\n", buf.String())
}

func TestHumanFormatter_FormatDelete(t *testing.T) {
	var buf bytes.Buffer
	results := []clientcli.DeleteResult{
		{Name: "a.txt", Deleted: true},
		{Name: "b.txt", Err: clientcli.ErrNotFound},
	}
	require.NoError(t, (&clientcli.HumanFormatter{}).FormatDelete(&buf, results))
	assert.Contains(t, buf.String(), "Deleted: a.txt")
	assert.Contains(t, buf.String(), "Error: b.txt - device error: 404 Not Found")
}

func TestHumanFormatter_FormatList(t *testing.T) {
	list := &clientcli.ListResult{
		Available: 1000,
		Total:     4096,
		Files: []clientcli.FileInfo{
			{Name: "index.html", Size: 2048},
			{Name: "app.js", Size: 1048},
		},
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatList(&buf, list))
		out := buf.String()
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "index.html")
		assert.Contains(t, out, "2 file(s) (3.0 KB total)")
		assert.Contains(t, out, "1000 B available of 4.0 KB")
	})

	t.Run("quiet prints names", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatList(&buf, list))
		assert.Equal(t, "index.html\napp.js\n", buf.String())
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatList(&buf, &clientcli.ListResult{Total: 10, Available: 10}))
		assert.Contains(t, buf.String(), "No files found")
	})
}

func TestHumanFormatter_FormatCall(t *testing.T) {
	result := &clientcli.CallResult{
		Method:      "GET",
		Path:        "/api/status",
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"ok":true}`),
	}

	t.Run("with status line", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatCall(&buf, result))
		assert.Equal(t, "GET /api/status -> 200 (application/json)\n{\"ok\":true}\n", buf.String())
	})

	t.Run("quiet prints body only", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{Quiet: true}).FormatCall(&buf, result))
		assert.Equal(t, "{\"ok\":true}\n", buf.String())
	})
}

func TestJSONFormatter(t *testing.T) {
	f := &clientcli.JSONFormatter{}

	t.Run("upload", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatUpload(&buf, []clientcli.UploadResult{
			{LocalPath: "a.txt", Name: "a.txt", Size: 3},
			{LocalPath: "b.txt", Name: "b.txt", Err: errors.New("boom")},
		}))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.InDelta(t, 3, got[0]["size_bytes"], 0)
		assert.Equal(t, "boom", got[1]["error"])
	})

	t.Run("list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatList(&buf, &clientcli.ListResult{
			Available: 10, Total: 20, Files: []clientcli.FileInfo{{Name: "a", Size: 10}},
		}))
		assert.JSONEq(t, `{"available_bytes":10,"total_bytes":20,"files":[{"name":"a","size_bytes":10}]}`, buf.String())
	})

	t.Run("call embeds json bodies", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatCall(&buf, &clientcli.CallResult{
			Method: "GET", Path: "/api/status", StatusCode: 200, ContentType: "application/json", Body: []byte(`{"ok":true}`),
		}))
		assert.JSONEq(t, `{"method":"GET","path":"/api/status","status":200,"content_type":"application/json","body":{"ok":true}}`, buf.String())
	})

	t.Run("call keeps text bodies as strings", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatCall(&buf, &clientcli.CallResult{
			Method: "POST", Path: "/api/echo", StatusCode: 200, ContentType: "text/plain", Body: []byte("hi there"),
		}))
		assert.JSONEq(t, `{"method":"POST","path":"/api/echo","status":200,"content_type":"text/plain","body":"hi there"}`, buf.String())
	})

	t.Run("delete", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatDelete(&buf, []clientcli.DeleteResult{{Name: "a", Deleted: true}}))
		assert.JSONEq(t, `{"results":[{"name":"a","deleted":true}]}`, buf.String())
	})

	t.Run("error", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, f.FormatError(&buf, errors.New("nope")))
		assert.JSONEq(t, `{"error":"nope"}`, buf.String())
	})
}

func TestFormatProfiles(t *testing.T) {
	profiles := []clientcli.Profile{
		{Name: "bench", Endpoint: "http://localhost:8080"},
		{Name: "kitchen", Endpoint: "http://192.168.4.1"},
	}

	t.Run("human list marks default", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileList(&buf, profiles, "kitchen"))
		assert.Contains(t, buf.String(), "* kitchen")
		assert.Contains(t, buf.String(), "  bench")
	})

	t.Run("human show", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.HumanFormatter{}).FormatProfileShow(&buf, profiles[1], true))
		assert.Equal(t, "Name:     kitchen (default)\nEndpoint: http://192.168.4.1\n", buf.String())
	})

	t.Run("json list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.JSONFormatter{}).FormatProfileList(&buf, profiles, "bench"))
		assert.JSONEq(t, `{"profiles":[
			{"name":"bench","endpoint":"http://localhost:8080","default":true},
			{"name":"kitchen","endpoint":"http://192.168.4.1"}
		]}`, buf.String())
	})

	t.Run("json show", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&clientcli.JSONFormatter{}).FormatProfileShow(&buf, profiles[0], false))
		assert.JSONEq(t, `{"name":"bench","endpoint":"http://localhost:8080","default":false}`, buf.String())
	})
}
