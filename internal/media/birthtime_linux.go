//go:build linux

package media

import (
	"time"

	"golang.org/x/sys/unix"
)

// FileBirthTime returns the file's creation time. Filesystems that do not
// record a birth time fall back to the inode change time.
func FileBirthTime(path string) (time.Time, error) {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME|unix.STATX_CTIME, &stx); err != nil {
		return time.Time{}, err
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)).UTC(), nil
	}
	return time.Unix(stx.Ctime.Sec, int64(stx.Ctime.Nsec)).UTC(), nil
}
