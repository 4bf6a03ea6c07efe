package history

import (
	"time"

	"go.uber.org/zap"
)

// ForMode assembles the strategy chain for a vcs mode: "auto", "git",
// "go-git" or "none". The filesystem strategy always closes the chain.
func ForMode(mode, root string, timeout time.Duration, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}

	var strategies []Strategy
	switch mode {
	case "git":
		strategies = append(strategies, NewGitCLI(root, timeout, logger))
	case "go-git":
		if gg, err := OpenGoGit(root, logger); err == nil {
			strategies = append(strategies, gg)
		} else {
			logger.Debug("go-git unavailable", zap.Error(err))
		}
	case "none":
	default:
		cli := NewGitCLI(root, timeout, logger)
		if cli.ToolPresent() {
			if cli.IsRepository() {
				strategies = append(strategies, cli)
			}
		} else if gg, err := OpenGoGit(root, logger); err == nil {
			strategies = append(strategies, gg)
		}
	}

	strategies = append(strategies, Filesystem{})
	return NewChain(logger, strategies...)
}
