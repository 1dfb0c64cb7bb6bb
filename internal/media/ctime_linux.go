//go:build linux

package media

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// creationTime returns the file's birth time via statx, falling back to the
// modification time when the filesystem does not record one.
func creationTime(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
