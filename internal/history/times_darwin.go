//go:build darwin

package history

import (
	"os"
	"syscall"
	"time"
)

func createdTime(_ string, info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}
	}
	if st.Birthtimespec.Sec != 0 {
		return time.Unix(st.Birthtimespec.Unix())
	}
	return time.Unix(st.Ctimespec.Unix())
}
