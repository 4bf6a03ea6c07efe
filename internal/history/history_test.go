package history

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokyo = time.FixedZone("", 9*60*60)
	t1    = time.Date(2023, 6, 1, 9, 0, 0, 0, tokyo)
	t2    = time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC)
	t3    = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
)

// newRepo builds a repository where A-main is committed at t1 and t2 and
// B-main only at t3.
func newRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	commit := func(rel, content string, when time.Time) {
		abs := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
		require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
		_, err := wt.Add(filepath.ToSlash(rel))
		require.NoError(t, err)
		sig := &object.Signature{Name: "Dev", Email: "dev@example.com", When: when}
		_, err = wt.Commit("update "+rel, &git.CommitOptions{Author: sig, Committer: sig})
		require.NoError(t, err)
	}

	commit("A-main/index.html", "<h1>A</h1>", t1)
	commit("A-main/app.js", "console.log(1)", t2)
	commit("B-main/index.html", "<h1>B</h1>", t3)
	return root
}

func TestGoGit_FirstAndLastCommit(t *testing.T) {
	root := newRepo(t)
	gg, err := OpenGoGit(root, nil)
	require.NoError(t, err)

	got, ok := gg.Resolve(context.Background(), filepath.Join(root, "A-main"))
	require.True(t, ok)
	assert.Equal(t, "2023-06-01T09:00:00+09:00", got.Created)
	assert.Equal(t, "2024-01-01T12:30:00Z", got.Updated)

	got, ok = gg.Resolve(context.Background(), filepath.Join(root, "B-main"))
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T08:00:00Z", got.Created)
	assert.Equal(t, got.Created, got.Updated)
}

func TestGoGit_UntrackedDirStepsAside(t *testing.T) {
	root := newRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "C-main"), 0o755))

	gg, err := OpenGoGit(root, nil)
	require.NoError(t, err)

	_, ok := gg.Resolve(context.Background(), filepath.Join(root, "C-main"))
	assert.False(t, ok)
}

func TestOpenGoGit_NotARepo(t *testing.T) {
	_, err := OpenGoGit(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestGitCLI_FirstAndLastCommit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root := newRepo(t)

	cli := NewGitCLI(root, 5*time.Second, nil)
	require.True(t, cli.ToolPresent())
	require.True(t, cli.IsRepository())

	got, ok := cli.Resolve(context.Background(), filepath.Join(root, "A-main"))
	require.True(t, ok)
	assert.Equal(t, "2023-06-01T09:00:00+09:00", got.Created)
	assert.Equal(t, "2024-01-01T12:30:00Z", got.Updated)

	_, ok = cli.Resolve(context.Background(), filepath.Join(root, "missing-main"))
	assert.False(t, ok)
}

func TestGitBackendsAgree(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root := newRepo(t)

	cli := NewGitCLI(root, 5*time.Second, nil)
	gg, err := OpenGoGit(root, nil)
	require.NoError(t, err)

	for _, dir := range []string{"A-main", "B-main"} {
		fromCLI, ok := cli.Resolve(context.Background(), filepath.Join(root, dir))
		require.True(t, ok, dir)
		fromGoGit, ok := gg.Resolve(context.Background(), filepath.Join(root, dir))
		require.True(t, ok, dir)
		assert.Equal(t, fromGoGit, fromCLI, dir)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-01T08:00:00+00:00\n", "2024-03-01T08:00:00Z", true},
		{"2023-06-01T09:00:00+09:00\n2024-01-01T12:30:00+00:00\n", "2023-06-01T09:00:00+09:00", true},
		{"", "", false},
		{"not a date\n", "", false},
	}
	for _, tt := range tests {
		got, ok := firstLine(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestGitCLI_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A-main"), 0o755))

	cli := NewGitCLI(root, 5*time.Second, nil)
	assert.False(t, cli.IsRepository())
	_, ok := cli.Resolve(context.Background(), filepath.Join(root, "A-main"))
	assert.False(t, ok)
}

func TestChain_TimeoutFallsBackToFilesystem(t *testing.T) {
	root := newRepo(t)
	chain := NewChain(nil, NewGitCLI(root, time.Nanosecond, nil), Filesystem{})

	got := chain.Resolve(context.Background(), filepath.Join(root, "A-main"))

	created, err := time.Parse(time.RFC3339, got.Created)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, created.Location(), "filesystem times are UTC")
	assert.NotEqual(t, "2023-06-01T09:00:00+09:00", got.Created)
}

func TestFilesystem_Resolve(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC)
	require.NoError(t, os.Chtimes(dir, mtime, mtime))

	got, ok := Filesystem{}.Resolve(context.Background(), dir)
	require.True(t, ok)
	assert.Equal(t, "2022-02-02T02:02:02Z", got.Updated)
	_, err := time.Parse(time.RFC3339, got.Created)
	assert.NoError(t, err)

	_, ok = Filesystem{}.Resolve(context.Background(), filepath.Join(dir, "gone"))
	assert.False(t, ok)
}

type stubStrategy struct {
	name  string
	times Times
	ok    bool
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Resolve(context.Context, string) (Times, bool) {
	s.calls++
	return s.times, s.ok
}

func TestChain_Order(t *testing.T) {
	first := &stubStrategy{name: "first"}
	second := &stubStrategy{name: "second", times: Times{Created: "c", Updated: "u"}, ok: true}
	third := &stubStrategy{name: "third", ok: true}

	chain := NewChain(nil, first, second, third)
	assert.Equal(t, []string{"first", "second", "third"}, chain.Names())

	got := chain.Resolve(context.Background(), "dir")
	assert.Equal(t, Times{Created: "c", Updated: "u"}, got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, 0, third.calls)
}

func TestChain_IsTotal(t *testing.T) {
	chain := NewChain(nil, &stubStrategy{name: "never"})
	chain.now = func() time.Time { return t3 }

	got := chain.Resolve(context.Background(), "dir")
	assert.Equal(t, Times{Created: "2024-03-01T08:00:00Z", Updated: "2024-03-01T08:00:00Z"}, got)
}

func TestForMode(t *testing.T) {
	root := newRepo(t)

	assert.Equal(t, []string{"filesystem"}, ForMode("none", root, time.Second, nil).Names())
	assert.Equal(t, []string{"go-git", "filesystem"}, ForMode("go-git", root, time.Second, nil).Names())
	assert.Equal(t, []string{"filesystem"}, ForMode("go-git", t.TempDir(), time.Second, nil).Names())
	assert.Equal(t, []string{"git", "filesystem"}, ForMode("git", root, time.Second, nil).Names())

	auto := ForMode("auto", root, time.Second, nil).Names()
	assert.Len(t, auto, 2)
	assert.Equal(t, "filesystem", auto[1])
}
