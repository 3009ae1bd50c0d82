//go:build linux

package scan

import (
	"time"

	"golang.org/x/sys/unix"
)

// birthTime returns the file's creation time via statx, or the zero time
// when the filesystem does not record one.
func birthTime(path string) time.Time {
	var stat unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stat)
	if err != nil || stat.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}
	}
	if stat.Btime.Sec == 0 && stat.Btime.Nsec == 0 {
		return time.Time{}
	}
	return time.Unix(stat.Btime.Sec, int64(stat.Btime.Nsec))
}
