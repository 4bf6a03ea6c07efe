//go:build !linux && !darwin

package history

import (
	"os"
	"time"
)

func createdTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
