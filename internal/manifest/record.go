package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"showcase/internal/meta"
)

// Record is one project card in the manifest.
type Record struct {
	Dir        string   `json:"dir"`
	Name       string   `json:"name"`
	ProjectSrc string   `json:"projectSrc"`
	ImgSrc     string   `json:"imgSrc"`
	Tags       []string `json:"tags"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// File is the manifest document.
type File struct {
	Projects []Record `json:"projects"`
}

// FromExternal converts a validated sidecar entry.
func FromExternal(p meta.ExternalProject) Record {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return Record{
		Dir:        p.Dir,
		Name:       p.Name,
		ProjectSrc: p.ProjectSrc,
		ImgSrc:     p.ImgSrc,
		Tags:       tags,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// Merge combines records keyed by Dir. An overlay record replaces the base
// record with the same Dir in place; new keys are appended.
func Merge(base, overlay []Record, logger *zap.Logger) []Record {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]Record, 0, len(base)+len(overlay))
	index := make(map[string]int, len(base)+len(overlay))

	add := func(r Record, fromOverlay bool) {
		if i, ok := index[r.Dir]; ok {
			if fromOverlay {
				logger.Debug("external project replaces record", zap.String("dir", r.Dir), zap.String("replaced", out[i].Name))
			}
			out[i] = r
			return
		}
		index[r.Dir] = len(out)
		out = append(out, r)
	}

	for _, r := range base {
		add(r, false)
	}
	for _, r := range overlay {
		add(r, true)
	}
	return out
}

// Sort orders records newest createdAt first. Timestamps are compared as
// instants when both parse, as strings otherwise; Dir breaks ties.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return compareCreated(records[i], records[j]) < 0
	})
}

func compareCreated(a, b Record) int {
	ta, okA := meta.ParseDate(a.CreatedAt)
	tb, okB := meta.ParseDate(b.CreatedAt)
	switch {
	case okA && okB && !ta.Equal(tb):
		if ta.After(tb) {
			return -1
		}
		return 1
	case !(okA && okB) && a.CreatedAt != b.CreatedAt:
		if a.CreatedAt > b.CreatedAt {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Dir, b.Dir)
}

// Encode renders the manifest as 2-space indented JSON with a trailing newline.
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(File{Projects: records}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with the encoded manifest.
func Write(path string, records []Record) error {
	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Decode parses a manifest document. A missing projects key yields no records.
func Decode(data []byte) ([]Record, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Projects, nil
}
