// Package media wraps the external ffmpeg and ffprobe tools: reading clip
// metadata, encoding rendered frames and compositing an overlay onto footage.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source records where a clip's start time came from.
type Source string

const (
	SourceVideoMetadata Source = "video_metadata"
	SourceFileCreation  Source = "file_creation"
)

// VideoMetadata is what alignment needs to know about a clip.
type VideoMetadata struct {
	StartTime       time.Time // UTC
	DurationSeconds float64
	Source          Source
	Width           int
	Height          int
}

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Tags       map[string]string `json:"tags"`
}

type ffprobeStream struct {
	CodecType string            `json:"codec_type"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Duration  string            `json:"duration"`
	Tags      map[string]string `json:"tags"`
}

// creationTags are checked in order on the container, then on each stream.
var creationTags = []string{"creation_time", "com.apple.quicktime.creationdate", "date"}

// Prober reads clip metadata with ffprobe.
type Prober struct {
	Runner  Runner
	FFprobe string
	// BirthTime supplies the filesystem fallback; nil uses FileBirthTime.
	BirthTime func(path string) (time.Time, error)
}

// Probe returns the clip's duration and best-effort start time: the embedded
// creation tag when present, otherwise the file's birth time.
func (p Prober) Probe(ctx context.Context, path string) (VideoMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return VideoMetadata{}, &VideoReadError{Path: path, Reason: "file does not exist; check the file path"}
		}
		return VideoMetadata{}, &VideoReadError{Path: path, Reason: err.Error()}
	}
	if info.IsDir() {
		return VideoMetadata{}, &VideoReadError{Path: path, Reason: "path is a directory"}
	}

	runner := p.Runner
	if runner == nil {
		runner = CmdRunner{}
	}
	ffprobe := p.FFprobe
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}

	args := []string{
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-print_format", "json",
		path,
	}
	result, runErr := runner.Run(ctx, ffprobe, args, RunOptions{})
	if runErr != nil {
		reason := fmt.Sprintf("ffprobe: %v", runErr)
		if tail := stderrTail(result.Stderr, 3); tail != "" {
			reason += ": " + tail
		}
		return VideoMetadata{}, &VideoReadError{Path: path, Reason: reason}
	}
	if len(result.Stdout) == 0 {
		return VideoMetadata{}, &VideoReadError{Path: path, Reason: "ffprobe produced no output"}
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(result.Stdout, &parsed); err != nil {
		return VideoMetadata{}, &VideoReadError{Path: path, Reason: fmt.Sprintf("decode ffprobe output: %v", err)}
	}

	meta := VideoMetadata{DurationSeconds: parsed.duration()}
	if meta.DurationSeconds <= 0 {
		return VideoMetadata{}, &VideoReadError{Path: path, Reason: "invalid video duration; the file may be corrupted or use an unsupported format"}
	}
	for _, s := range parsed.Streams {
		if s.CodecType == "video" {
			meta.Width, meta.Height = s.Width, s.Height
			break
		}
	}

	if start, ok := parsed.creationTime(); ok {
		meta.StartTime = start
		meta.Source = SourceVideoMetadata
		return meta, nil
	}

	birth := p.BirthTime
	if birth == nil {
		birth = FileBirthTime
	}
	start, err := birth(path)
	if err != nil {
		return VideoMetadata{}, &VideoMetadataError{
			Path:    path,
			Details: fmt.Sprintf("cannot extract creation time from video metadata or file system: %v", err),
		}
	}
	meta.StartTime = start.UTC()
	meta.Source = SourceFileCreation
	return meta, nil
}

func (o ffprobeOutput) duration() float64 {
	if v, err := strconv.ParseFloat(o.Format.Duration, 64); err == nil && v > 0 {
		return v
	}
	for _, s := range o.Streams {
		if s.CodecType != "video" {
			continue
		}
		if v, err := strconv.ParseFloat(s.Duration, 64); err == nil && v > 0 {
			return v
		}
	}
	return 0
}

func (o ffprobeOutput) creationTime() (time.Time, bool) {
	candidates := []map[string]string{o.Format.Tags}
	for _, s := range o.Streams {
		candidates = append(candidates, s.Tags)
	}
	for _, tags := range candidates {
		for _, key := range creationTags {
			raw, ok := lookupTag(tags, key)
			if !ok {
				continue
			}
			if t, ok := ParseCreationTime(raw); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func lookupTag(tags map[string]string, key string) (string, bool) {
	for k, v := range tags {
		if strings.EqualFold(k, key) && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

var creationLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
}

// ParseCreationTime reads the timestamp formats cameras and muxers write,
// including a "UTC " prefix or " UTC" suffix. Values without a zone are UTC.
func ParseCreationTime(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "UTC ")
	value = strings.TrimSuffix(value, " UTC")
	for _, layout := range creationLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
