package history

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"
)

// GoGit reads commit dates with go-git, so it works without a git binary.
type GoGit struct {
	repo    *git.Repository
	workdir string
	logger  *zap.Logger
}

// OpenGoGit opens the repository containing root, searching parent
// directories for .git.
func OpenGoGit(root string, logger *zap.Logger) (*GoGit, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", root, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("open worktree at %s: %w", root, err)
	}
	workdir, err := filepath.Abs(wt.Filesystem.Root())
	if err != nil {
		return nil, err
	}
	return &GoGit{repo: repo, workdir: workdir, logger: logger}, nil
}

// Name implements Strategy.
func (g *GoGit) Name() string { return "go-git" }

var errStopIter = errors.New("stop")

// Resolve implements Strategy.
func (g *GoGit) Resolve(ctx context.Context, dir string) (Times, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Times{}, false
	}
	rel, err := filepath.Rel(g.workdir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return Times{}, false
	}
	rel = filepath.ToSlash(rel)
	prefix := rel + "/"
	if rel == "." {
		prefix = ""
	}

	iter, err := g.repo.Log(&git.LogOptions{
		Order: git.LogOrderCommitterTime,
		PathFilter: func(p string) bool {
			return prefix == "" || p == rel || strings.HasPrefix(p, prefix)
		},
	})
	if err != nil {
		g.logger.Debug("go-git log failed", zap.String("dir", rel), zap.Error(err))
		return Times{}, false
	}
	defer iter.Close()

	var newest, oldest *object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return errStopIter
		}
		if newest == nil {
			newest = c
		}
		oldest = c
		return nil
	})
	if err != nil && !errors.Is(err, errStopIter) {
		g.logger.Debug("go-git walk failed", zap.String("dir", rel), zap.Error(err))
		return Times{}, false
	}
	if ctx.Err() != nil || newest == nil {
		return Times{}, false
	}

	return Times{
		Created: format(oldest.Author.When),
		Updated: format(newest.Author.When),
	}, true
}
