package media

import "fmt"

// VideoReadError reports a video file that cannot be opened or measured.
type VideoReadError struct {
	Path   string
	Reason string
}

func (e *VideoReadError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("cannot read video file: %s", e.Path)
	}
	return fmt.Sprintf("cannot read video file: %s: %s", e.Path, e.Reason)
}

// VideoMetadataError reports a video whose creation time cannot be determined.
type VideoMetadataError struct {
	Path    string
	Details string
}

func (e *VideoMetadataError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("cannot extract metadata from video: %s", e.Path)
	}
	return fmt.Sprintf("cannot extract metadata from video: %s: %s", e.Path, e.Details)
}
