//go:build darwin

package media

import (
	"time"

	"golang.org/x/sys/unix"
)

// FileBirthTime returns the file's creation time.
func FileBirthTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, err
	}
	sec, nsec := st.Birthtimespec.Unix()
	return time.Unix(sec, nsec).UTC(), nil
}
