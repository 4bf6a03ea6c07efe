package history

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// GitCLI reads commit dates by shelling out to git. Every invocation runs
// under its own timeout; a timeout counts as a failed lookup.
type GitCLI struct {
	root    string
	timeout time.Duration
	bin     string
	isRepo  bool
	logger  *zap.Logger
}

// NewGitCLI probes for the git binary and whether root is inside a work tree.
func NewGitCLI(root string, timeout time.Duration, logger *zap.Logger) *GitCLI {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &GitCLI{root: root, timeout: timeout, logger: logger}

	bin, err := exec.LookPath("git")
	if err != nil {
		logger.Debug("git binary not found", zap.Error(err))
		return g
	}
	g.bin = bin

	out, ok := g.run(context.Background(), "rev-parse", "--is-inside-work-tree")
	g.isRepo = ok && strings.TrimSpace(out) == "true"
	return g
}

// Name implements Strategy.
func (g *GitCLI) Name() string { return "git" }

// ToolPresent reports whether a git binary was found.
func (g *GitCLI) ToolPresent() bool { return g.bin != "" }

// IsRepository reports whether the root is under version control.
func (g *GitCLI) IsRepository() bool { return g.isRepo }

// Resolve implements Strategy.
func (g *GitCLI) Resolve(ctx context.Context, dir string) (Times, bool) {
	if !g.ToolPresent() || !g.IsRepository() {
		return Times{}, false
	}

	first, ok := g.FirstCommit(ctx, dir)
	if !ok {
		return Times{}, false
	}
	last, ok := g.LastCommit(ctx, dir)
	if !ok {
		return Times{}, false
	}
	return Times{Created: first, Updated: last}, true
}

// FirstCommit returns the author date of the oldest commit touching path.
func (g *GitCLI) FirstCommit(ctx context.Context, path string) (string, bool) {
	// --reverse is applied after -n, so the full list is needed here.
	out, ok := g.run(ctx, "log", "--reverse", "--format=%aI", "--", path)
	if !ok {
		return "", false
	}
	return firstLine(out)
}

// LastCommit returns the author date of the newest commit touching path.
func (g *GitCLI) LastCommit(ctx context.Context, path string) (string, bool) {
	out, ok := g.run(ctx, "log", "-1", "--format=%aI", "--", path)
	if !ok {
		return "", false
	}
	return firstLine(out)
}

func (g *GitCLI) run(ctx context.Context, args ...string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, g.bin, args...)
	cmd.Dir = g.root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		g.logger.Debug("git command failed",
			zap.Strings("args", args),
			zap.Error(err),
			zap.Bool("timeout", ctx.Err() != nil),
			zap.String("stderr", strings.TrimSpace(stderr.String())),
		)
		return "", false
	}
	return stdout.String(), true
}

func firstLine(out string) (string, bool) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	t, err := time.Parse(time.RFC3339, line)
	if err != nil {
		return "", false
	}
	// git prints a zero offset as +00:00; normalise to the other strategies.
	return format(t), true
}
