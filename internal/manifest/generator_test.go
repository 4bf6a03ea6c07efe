package manifest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/internal/history"
	"showcase/internal/meta"
	"showcase/internal/scanner"
)

type fixedResolver map[string]history.Times

func (f fixedResolver) Resolve(_ context.Context, dir string) history.Times {
	if t, ok := f[filepath.Base(dir)]; ok {
		return t
	}
	return history.Times{Created: "2020-01-01T00:00:00Z", Updated: "2020-01-01T00:00:00Z"}
}

func mkProject(t *testing.T, root, name string, files ...string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644))
	}
}

func newGenerator(t *testing.T, root, sidecar string, times fixedResolver) *Generator {
	t.Helper()
	sc := meta.Empty()
	if sidecar != "" {
		path := filepath.Join(root, "meta.json")
		require.NoError(t, os.WriteFile(path, []byte(sidecar), 0o644))
		sc = meta.LoadOrEmpty(path, nil)
	}
	return &Generator{
		Root:       root,
		Output:     filepath.Join(root, "data.json"),
		Scan:       scanner.Options{EntryFile: "index.html", DirSuffix: "-main"},
		Sidecar:    sc,
		Resolver:   times,
		DefaultTag: "HTML",
		Now:        func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func byDir(records []Record) map[string]Record {
	out := make(map[string]Record, len(records))
	for _, r := range records {
		out[r.Dir] = r
	}
	return out
}

func TestCollect_TagsAndPreview(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "A-main", "index.html")
	mkProject(t, root, "B-main", "index.html", "preview.png")

	g := newGenerator(t, root, `{"tags": {"B-main": ["Go", "CLI"]}}`, nil)
	records, err := g.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	got := byDir(records)
	b := got["B-main"]
	assert.Equal(t, []string{"Go", "CLI"}, b.Tags)
	assert.Equal(t, "B-main/preview.png", b.ImgSrc)
	assert.Equal(t, "B-main/index.html", b.ProjectSrc)
	assert.Equal(t, "B", b.Name)

	a := got["A-main"]
	assert.Equal(t, []string{"HTML"}, a.Tags)
	assert.Equal(t, "", a.ImgSrc)
	assert.Equal(t, "A", a.Name)
}

func TestCollect_ExcludesDirWithoutEntryPoint(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "A-main", "index.html")
	mkProject(t, root, "C-main", "preview.png", "style.css")

	records, err := newGenerator(t, root, "", nil).Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A-main", records[0].Dir)
}

func TestCollect_ExternalProjects(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "A-main", "index.html")
	mkProject(t, root, "B-main", "index.html", "preview.png")

	sidecar := `{
		"tags": {"B-main": ["Go", "CLI"]},
		"externalProjects": [
			{"dir": "nameless", "projectSrc": "https://example.com/x"},
			{
				"dir": "B-main",
				"name": "Hosted B",
				"projectSrc": "https://example.com/b",
				"createdAt": "2024-02-01T00:00:00Z"
			},
			{"dir": "ext", "name": "Ext", "projectSrc": "https://example.com/ext", "tags": ["React"]}
		]
	}`
	records, err := newGenerator(t, root, sidecar, nil).Collect(context.Background())
	require.NoError(t, err)

	got := byDir(records)
	require.Len(t, got, 3)
	_, dropped := got["nameless"]
	assert.False(t, dropped, "entry without name must be dropped")

	assert.Equal(t, Record{
		Dir:        "B-main",
		Name:       "Hosted B",
		ProjectSrc: "https://example.com/b",
		ImgSrc:     "",
		Tags:       []string{},
		CreatedAt:  "2024-02-01T00:00:00Z",
		UpdatedAt:  "2024-02-01T00:00:00Z",
	}, got["B-main"], "external record replaces the local one entirely")

	ext := got["ext"]
	assert.Equal(t, []string{"React"}, ext.Tags)
	assert.Equal(t, "2025-01-01T00:00:00Z", ext.CreatedAt)
}

func TestCollect_Ordering(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "first-main", "index.html")
	mkProject(t, root, "second-main", "index.html")
	mkProject(t, root, "third-main", "index.html")

	times := fixedResolver{
		"first-main":  {Created: "2024-01-01T00:00:00Z", Updated: "2024-01-01T00:00:00Z"},
		"second-main": {Created: "2024-03-01T00:00:00Z", Updated: "2024-03-01T00:00:00Z"},
		"third-main":  {Created: "2023-06-01T00:00:00Z", Updated: "2023-06-01T00:00:00Z"},
	}
	records, err := newGenerator(t, root, "", times).Collect(context.Background())
	require.NoError(t, err)

	var dirs []string
	for _, r := range records {
		dirs = append(dirs, r.Dir)
	}
	assert.Equal(t, []string{"second-main", "first-main", "third-main"}, dirs)
}

func TestCollect_MissingRoot(t *testing.T) {
	g := newGenerator(t, t.TempDir(), "", nil)
	g.Root = filepath.Join(g.Root, "missing")

	_, err := g.Collect(context.Background())
	assert.True(t, errors.Is(err, scanner.ErrRootUnreadable))
}

func TestRun_WritesDeterministicFile(t *testing.T) {
	root := t.TempDir()
	mkProject(t, root, "A-main", "index.html")
	mkProject(t, root, "B-main", "index.html", "preview.png")
	sidecar := `{"tags": {"B-main": ["Go", "CLI"]}}`

	g := newGenerator(t, root, sidecar, nil)
	n, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first, err := os.ReadFile(g.Output)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(first, []byte("}\n")), "trailing newline")
	assert.True(t, strings.HasPrefix(string(first), "{\n  \"projects\": [\n    {\n      \"dir\": "), "2-space indent: %s", first)

	_, err = newGenerator(t, root, sidecar, nil).Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(g.Output)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	decoded, err := Decode(first)
	require.NoError(t, err)
	assert.Len(t, decoded, 2)
}

func TestRun_OverwritesExistingFile(t *testing.T) {
	root := t.TempDir()
	g := newGenerator(t, root, "", nil)
	require.NoError(t, os.WriteFile(g.Output, []byte("stale content that is longer than the new manifest"), 0o644))

	n, err := g.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	data, err := os.ReadFile(g.Output)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"projects\": []\n}\n", string(data))
}
