package notify

import (
	"crypto/rand"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

type seedFile struct {
	Notifications []seedItem `yaml:"notifications"`
}

type seedItem struct {
	ID        string      `yaml:"id"`
	AvatarSrc string      `yaml:"avatarSrc"`
	Name      string      `yaml:"name"`
	Action    string      `yaml:"action"`
	Timestamp string      `yaml:"timestamp"`
	Target    *seedTarget `yaml:"target"`
	Seen      bool        `yaml:"seen"`
}

type seedTarget struct {
	Type       string `yaml:"type"`
	Title      string `yaml:"title"`
	Name       string `yaml:"name"`
	Details    string `yaml:"details"`
	PictureSrc string `yaml:"pictureSrc"`
}

// DefaultItems returns the built-in Chess Club notifications.
func DefaultItems() []Item {
	items, err := ParseItems(defaultSeed)
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return items
}

// LoadItems reads a YAML seed file.
func LoadItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	items, err := ParseItems(data)
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return items, nil
}

// ParseItems decodes seed YAML. Items without an id get a generated ULID.
func ParseItems(data []byte) ([]Item, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(f.Notifications))
	for i, si := range f.Notifications {
		target, err := si.Target.toTarget()
		if err != nil {
			return nil, fmt.Errorf("notification %d: %w", i, err)
		}
		id := strings.TrimSpace(si.ID)
		if id == "" {
			id = ulid.MustNew(ulid.Now(), rand.Reader).String()
		}
		items = append(items, Item{
			ID:        id,
			AvatarSrc: si.AvatarSrc,
			Name:      si.Name,
			Action:    si.Action,
			Timestamp: si.Timestamp,
			Target:    target,
			Seen:      si.Seen,
		})
	}
	return items, nil
}

func (t *seedTarget) toTarget() (Target, error) {
	if t == nil {
		return nil, nil
	}
	switch TargetKind(strings.ToUpper(strings.TrimSpace(t.Type))) {
	case KindPost:
		return PostTarget{Title: t.Title}, nil
	case KindGroup:
		return GroupTarget{Name: t.Name}, nil
	case KindMessage:
		return MessageTarget{Details: t.Details}, nil
	case KindPicture:
		return PictureTarget{PictureSrc: t.PictureSrc}, nil
	default:
		return nil, fmt.Errorf("unknown target type %q", t.Type)
	}
}
