package segment

import (
	"fmt"
	"strings"
)

// OutOfBoundsError reports a window that starts at or after the end of the dive.
type OutOfBoundsError struct {
	Start        int
	End          int
	DiveDuration int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("video segment %ds-%ds is outside dive log bounds (0s-%ds)", e.Start, e.End, e.DiveDuration)
}

// Details renders the multi-line diagnostic shown to users.
func (e *OutOfBoundsError) Details() string {
	var b strings.Builder
	b.WriteString("Video segment is outside dive log bounds\n\n")
	fmt.Fprintf(&b, "Segment:\n   Start: %ds\n   End: %ds\n", e.Start, e.End)
	fmt.Fprintf(&b, "\nDive:\n   Duration: %ds\n   Valid range: 0s to %ds\n", e.DiveDuration, e.DiveDuration)
	b.WriteString("\nPossible causes:\n")
	if e.Start < 0 {
		fmt.Fprintf(&b, "   - Segment starts %ds before dive begins\n", -e.Start)
	}
	if e.Start >= e.DiveDuration {
		fmt.Fprintf(&b, "   - Segment starts %ds after dive ends\n", e.Start-e.DiveDuration)
	}
	if e.End > e.DiveDuration {
		fmt.Fprintf(&b, "   - Segment ends %ds after dive ends\n", e.End-e.DiveDuration)
	}
	b.WriteString("\nSuggestions:\n")
	b.WriteString("   - Check video file timestamp is correct\n")
	b.WriteString("   - Verify dive log covers the correct dive\n")
	b.WriteString("   - Try manual segment specification with --start and --duration\n")
	return b.String()
}

// EmptySegmentError reports a window that matched no samples.
type EmptySegmentError struct {
	Start       int
	End         int
	SampleCount int
}

func (e *EmptySegmentError) Error() string {
	return fmt.Sprintf("segment %ds-%ds matched no samples (dive log has %d samples)", e.Start, e.End, e.SampleCount)
}

// Details renders the multi-line diagnostic shown to users.
func (e *EmptySegmentError) Details() string {
	var b strings.Builder
	b.WriteString("Segment extraction resulted in no samples\n\n")
	fmt.Fprintf(&b, "Segment:\n   Start: %ds\n   End: %ds\n   Duration: %ds\n", e.Start, e.End, e.End-e.Start)
	fmt.Fprintf(&b, "\nDive log:\n   Total samples: %d\n", e.SampleCount)
	b.WriteString("\nPossible causes:\n")
	b.WriteString("   - Segment is in a gap between dive samples\n")
	b.WriteString("   - Segment boundaries are incorrect\n")
	b.WriteString("   - Dive log sampling rate is too low\n")
	b.WriteString("\nSuggestions:\n")
	b.WriteString("   - Verify segment times are within dive duration\n")
	b.WriteString("   - Check dive log file contains sufficient samples\n")
	return b.String()
}
