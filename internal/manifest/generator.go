// Package manifest builds the gallery's data.json: it discovers project
// directories, resolves their tags and timestamps, merges in externally
// hosted projects from the sidecar and writes the ordered result.
package manifest

import (
	"context"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"showcase/internal/history"
	"showcase/internal/meta"
	"showcase/internal/scanner"
)

// Resolver supplies created/updated timestamps for a directory. It must
// always answer.
type Resolver interface {
	Resolve(ctx context.Context, dir string) history.Times
}

// Generator is one manifest run.
type Generator struct {
	Root       string
	Output     string
	Scan       scanner.Options
	Sidecar    *meta.Sidecar
	Resolver   Resolver
	DefaultTag string
	Now        func() time.Time
	Logger     *zap.Logger
}

func (g *Generator) defaults() {
	if g.Logger == nil {
		g.Logger = zap.NewNop()
	}
	if g.Sidecar == nil {
		g.Sidecar = meta.Empty()
	}
	if g.Resolver == nil {
		g.Resolver = history.NewChain(g.Logger, history.Filesystem{})
	}
	if g.Now == nil {
		g.Now = time.Now
	}
	if g.DefaultTag == "" {
		g.DefaultTag = "HTML"
	}
}

// Collect runs discovery, tag and timestamp resolution, external injection,
// merge and ordering. Only an unreadable root is an error.
func (g *Generator) Collect(ctx context.Context) ([]Record, error) {
	g.defaults()

	scan, err := scanner.Scan(g.Root, g.Scan)
	if err != nil {
		return nil, err
	}

	local := make([]Record, 0, len(scan.Projects))
	for _, p := range scan.Projects {
		times := g.Resolver.Resolve(ctx, p.Path)

		imgSrc := ""
		if p.Preview != "" {
			imgSrc = path.Join(p.Name, p.Preview)
		}
		entry := g.Scan.EntryFile
		if entry == "" {
			entry = "index.html"
		}

		local = append(local, Record{
			Dir:        p.Name,
			Name:       scanner.DisplayName(p.Name, g.Scan.DirSuffix),
			ProjectSrc: path.Join(p.Name, entry),
			ImgSrc:     imgSrc,
			Tags:       g.Sidecar.TagsFor(p.Name, g.DefaultTag),
			CreatedAt:  times.Created,
			UpdatedAt:  times.Updated,
		})
	}

	var external []Record
	for _, p := range g.Sidecar.External(g.Now()) {
		external = append(external, FromExternal(p))
	}

	g.Logger.Info("collected projects",
		zap.Int("local", len(local)),
		zap.Int("external", len(external)),
	)

	records := Merge(local, external, g.Logger)
	Sort(records)
	return records, nil
}

// Run collects and writes the manifest, returning how many records were
// written.
func (g *Generator) Run(ctx context.Context) (int, error) {
	records, err := g.Collect(ctx)
	if err != nil {
		return 0, fmt.Errorf("collect projects: %w", err)
	}
	if err := Write(g.Output, records); err != nil {
		return 0, err
	}
	g.Logger.Info("wrote manifest", zap.String("path", g.Output), zap.Int("projects", len(records)))
	return len(records), nil
}
