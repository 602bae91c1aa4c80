//go:build !linux && !darwin

package media

import (
	"os"
	"time"
)

// FileBirthTime returns the file's modification time; other platforms do not
// expose a portable creation time.
func FileBirthTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime().UTC(), nil
}
