package gallery

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/internal/manifest"
)

const sampleManifest = `{
  "projects": [
    {
      "dir": "B-main",
      "name": "B",
      "projectSrc": "B-main/index.html",
      "imgSrc": "B-main/preview.png",
      "tags": ["Go", "CLI"],
      "createdAt": "2024-03-01T00:00:00Z",
      "updatedAt": "2024-03-01T00:00:00Z"
    }
  ]
}
`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleManifest), 0o644))

	records, err := Load(context.Background(), path, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"Go", "CLI"}, records[0].Tags)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "data.json"), nil)
	assert.True(t, errors.Is(err, ErrLoadFailed))
}

func TestLoad_HTTP(t *testing.T) {
	var cacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cacheControl = r.Header.Get("Cache-Control")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleManifest))
	}))
	defer srv.Close()

	records, err := Load(context.Background(), srv.URL+"/data.json", srv.Client())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, "no-store", cacheControl)
}

func TestLoad_HTTPFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL+"/data.json", srv.Client())
	assert.True(t, errors.Is(err, ErrLoadFailed))
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(context.Background(), path, nil)
	assert.True(t, errors.Is(err, ErrLoadFailed))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mar 1, 2024", FormatDate("2024-03-01T00:00:00Z"))
	assert.Equal(t, "Jun 1, 2023", FormatDate("2023-06-01T09:00:00+09:00"))
	assert.Equal(t, "soon", FormatDate("soon"))
}

func TestExport(t *testing.T) {
	records, err := manifest.Decode([]byte(sampleManifest))
	require.NoError(t, err)
	records = append(records, manifest.Record{
		Dir:        "x",
		Name:       "<script>alert(1)</script>",
		ProjectSrc: "https://example.com/x",
		UpdatedAt:  "2024-01-01T00:00:00Z",
	})

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, records, "My Projects"))
	out := buf.String()

	assert.Contains(t, out, "<title>My Projects</title>")
	assert.Contains(t, out, `href="B-main/index.html"`)
	assert.Contains(t, out, `src="B-main/preview.png"`)
	assert.Contains(t, out, "<code>Go</code>")
	assert.Contains(t, out, "<code>CLI</code>")
	assert.Contains(t, out, "Updated Mar 1, 2024")
	assert.Contains(t, out, `href="https://example.com/x"`)
	assert.NotContains(t, out, "<script>")
}

func TestMarkdown_Empty(t *testing.T) {
	assert.Contains(t, Markdown(nil, "Projects"), "No projects yet.")
}
