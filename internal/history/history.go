// Package history resolves when a project directory was created and last
// updated. Strategies are tried in order; each one either answers or steps
// aside, so a missing git binary, a non-repository root or a slow command all
// end up at the filesystem strategy.
package history

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Times holds RFC 3339 timestamps for a directory.
type Times struct {
	Created string
	Updated string
}

// Strategy answers for a directory or reports false to pass it on.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, dir string) (Times, bool)
}

// Chain tries strategies in order.
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
	now        func() time.Time
}

// NewChain builds a chain. A nil logger discards output.
func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{strategies: strategies, logger: logger, now: time.Now}
}

// Names lists the strategies in the order they are tried.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Resolve always returns timestamps. When every strategy steps aside the
// current time is used.
func (c *Chain) Resolve(ctx context.Context, dir string) Times {
	for _, s := range c.strategies {
		if t, ok := s.Resolve(ctx, dir); ok {
			return t
		}
		c.logger.Debug("timestamp strategy had no answer", zap.String("strategy", s.Name()), zap.String("dir", dir))
	}

	c.logger.Warn("no timestamp strategy answered; using current time", zap.String("dir", dir))
	now := format(c.now())
	return Times{Created: now, Updated: now}
}

func format(t time.Time) string {
	return t.Format(time.RFC3339)
}
