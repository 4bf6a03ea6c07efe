package history

import (
	"context"
	"os"
)

// Filesystem derives timestamps from directory metadata. createdAt is the
// birth time where the platform records it, otherwise the change time;
// updatedAt is the modification time. Both are rendered in UTC.
type Filesystem struct{}

// Name implements Strategy.
func (Filesystem) Name() string { return "filesystem" }

// Resolve implements Strategy. It only steps aside when the directory
// cannot be stat'ed.
func (Filesystem) Resolve(_ context.Context, dir string) (Times, bool) {
	info, err := os.Stat(dir)
	if err != nil {
		return Times{}, false
	}
	created := createdTime(dir, info)
	if created.IsZero() {
		created = info.ModTime()
	}
	return Times{
		Created: format(created.UTC()),
		Updated: format(info.ModTime().UTC()),
	}, true
}
