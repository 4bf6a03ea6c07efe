// Package meta reads the optional meta.json sidecar that sits next to the
// project directories. It supplies tag overrides per directory and project
// entries hosted elsewhere. Nothing in here fails a manifest run: a missing
// or malformed sidecar degrades to "no overrides".
package meta

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"showcase/internal/validate"
)

// Sidecar is a parsed metadata file.
type Sidecar struct {
	tags     map[string]json.RawMessage
	external []json.RawMessage
	logger   *zap.Logger
}

// ExternalProject is a validated externalProjects entry with its optional
// fields already defaulted.
type ExternalProject struct {
	Dir        string
	Name       string
	ProjectSrc string
	ImgSrc     string
	Tags       []string
	CreatedAt  string
	UpdatedAt  string
}

type requiredFields struct {
	Name       string `validate:"required"`
	ProjectSrc string `validate:"required"`
}

// Empty returns a sidecar with no overrides.
func Empty() *Sidecar {
	return &Sidecar{logger: zap.NewNop()}
}

// Load parses the sidecar at path. A missing file yields an empty sidecar
// and fs.ErrNotExist.
func Load(path string, logger *zap.Logger) (*Sidecar, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sidecar{logger: logger}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := s.parse(raw); err != nil {
		s.tags, s.external = nil, nil
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// LoadOrEmpty is Load with every failure downgraded to an empty sidecar.
func LoadOrEmpty(path string, logger *zap.Logger) *Sidecar {
	s, err := Load(path, logger)
	switch {
	case err == nil:
		return s
	case errors.Is(err, fs.ErrNotExist):
		return s
	default:
		s.logger.Warn("ignoring unreadable metadata file", zap.String("path", path), zap.Error(err))
		return s
	}
}

func (s *Sidecar) parse(raw []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return err
	}
	if top == nil {
		return errors.New("metadata root is not an object")
	}

	tagsRaw, hasTags := top["tags"]
	extRaw, hasExt := top["externalProjects"]

	if !hasTags && !hasExt {
		// Flat {"dir": ["tag", ...]} layout.
		s.tags = top
		return nil
	}

	if hasTags {
		if err := json.Unmarshal(tagsRaw, &s.tags); err != nil {
			s.logger.Warn("metadata tags is not an object; ignoring tag overrides", zap.Error(err))
			s.tags = nil
		}
	}
	if hasExt {
		if err := json.Unmarshal(extRaw, &s.external); err != nil {
			s.logger.Warn("metadata externalProjects is not an array; ignoring", zap.Error(err))
			s.external = nil
		}
	}
	return nil
}

// TagsFor returns the override tags for dir, or a single fallback tag when
// there is no valid override.
func (s *Sidecar) TagsFor(dir, fallback string) []string {
	if raw, ok := s.tags[dir]; ok {
		if tags, ok := stringList(raw); ok {
			return tags
		}
		s.logger.Debug("invalid tag override", zap.String("dir", dir))
	}
	return []string{fallback}
}

// External returns the valid externalProjects entries in declaration order.
// now is used for entries without a usable createdAt.
func (s *Sidecar) External(now time.Time) []ExternalProject {
	var out []ExternalProject
	for i, raw := range s.external {
		p, err := s.parseExternal(raw, now)
		if err != nil {
			s.logger.Debug("dropping external project", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Sidecar) parseExternal(raw json.RawMessage, now time.Time) (ExternalProject, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ExternalProject{}, err
	}
	if fields == nil {
		return ExternalProject{}, errors.New("entry is not an object")
	}

	req := requiredFields{
		Name:       strings.TrimSpace(stringField(fields, "name")),
		ProjectSrc: strings.TrimSpace(stringField(fields, "projectSrc")),
	}
	if err := validate.Struct(req); err != nil {
		return ExternalProject{}, err
	}

	p := ExternalProject{
		Dir:        stringField(fields, "dir"),
		Name:       req.Name,
		ProjectSrc: req.ProjectSrc,
		ImgSrc:     stringField(fields, "imgSrc"),
		Tags:       []string{},
	}
	if raw, ok := fields["tags"]; ok {
		if tags, ok := stringList(raw); ok {
			p.Tags = tags
		}
	}

	created, ok := ParseDate(stringField(fields, "createdAt"))
	if !ok {
		created = now.UTC()
	}
	p.CreatedAt = created.Format(time.RFC3339)

	if updated, ok := ParseDate(stringField(fields, "updatedAt")); ok {
		p.UpdatedAt = updated.Format(time.RFC3339)
	} else {
		p.UpdatedAt = p.CreatedAt
	}

	return p, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and plain dates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// stringField returns the value of key when it is a JSON string.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// stringList accepts only a JSON array whose elements are all strings.
func stringList(raw json.RawMessage) ([]string, bool) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, false
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, str)
	}
	return out, true
}
