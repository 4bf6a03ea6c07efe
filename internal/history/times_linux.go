//go:build linux

package history

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func createdTime(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err == nil && stx.Mask&unix.STATX_BTIME != 0 && (stx.Btime.Sec != 0 || stx.Btime.Nsec != 0) {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Ctim.Unix())
	}
	return time.Time{}
}
