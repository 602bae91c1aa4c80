package divelog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDiveLog matches every error returned by this package through errors.Is.
var ErrDiveLog = errors.New("dive log error")

// ErrNoDiveData reports a log that holds no dive records.
var ErrNoDiveData = fmt.Errorf("%w: no dive data found in the dive log file; check that the file is a valid dive log", ErrDiveLog)

// Structural sections a parser may find missing.
const (
	SectionDiveLog   = "dive log"
	SectionComputer  = "dive computer data"
	SectionSamples   = "dive samples"
	SectionStartTime = "dive start date/time"
)

// UnsupportedFormatError reports a path whose extension has no registered parser.
type UnsupportedFormatError struct {
	Path      string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported dive log format for file: %s (supported formats: %s)", e.Path, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrDiveLog }

// MultipleDivesError reports a log holding more than one dive.
type MultipleDivesError struct {
	Count int
}

func (e *MultipleDivesError) Error() string {
	return fmt.Sprintf("multiple dives found in the dive log file (%d dives); only single dive logs are supported, export each dive separately", e.Count)
}

func (e *MultipleDivesError) Is(target error) bool { return target == ErrDiveLog }

// MissingSectionError reports a required structural section that is absent.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("no %s found in the dive log", e.Section)
}

func (e *MissingSectionError) Is(target error) bool { return target == ErrDiveLog }

// MalformedLogError wraps a failure to read or decode the log container.
type MalformedLogError struct {
	Path string
	Err  error
}

func (e *MalformedLogError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed dive log: %v", e.Err)
	}
	return fmt.Sprintf("malformed dive log %s: %v", e.Path, e.Err)
}

func (e *MalformedLogError) Unwrap() error { return e.Err }

func (e *MalformedLogError) Is(target error) bool { return target == ErrDiveLog }

// SampleError reports a record whose required value cannot be parsed. Index
// is the zero-based position of the record in the source document.
type SampleError struct {
	Index int
	Field string
	Value string
	Err   error
}

func (e *SampleError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("sample %d: invalid %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("sample %d: invalid %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }

func (e *SampleError) Is(target error) bool { return target == ErrDiveLog }

// StartTimeError reports a dive start timestamp that cannot be parsed.
type StartTimeError struct {
	Value string
	Err   error
}

func (e *StartTimeError) Error() string {
	return fmt.Sprintf("invalid dive start date/time %q: %v", e.Value, e.Err)
}

func (e *StartTimeError) Unwrap() error { return e.Err }

func (e *StartTimeError) Is(target error) bool { return target == ErrDiveLog }

var errMissingValue = errors.New("value missing")
