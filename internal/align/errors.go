package align

import (
	"fmt"
	"strings"
	"time"
)

// OffsetError reports that no hour correction within MaxOffset places the
// video inside the dive.
type OffsetError struct {
	VideoTime     time.Time
	VideoDuration float64 // seconds, 0 when unknown
	DiveStart     time.Time
	DiveEnd       time.Time
	MaxOffset     int
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("cannot detect timezone offset between video (%s) and dive (%s to %s) within ±%d hours; difference %+.1f hours",
		e.VideoTime.UTC().Format(time.RFC3339), e.DiveStart.UTC().Format(time.RFC3339), e.DiveEnd.UTC().Format(time.RFC3339),
		e.MaxOffset, e.DifferenceHours())
}

// DifferenceHours is the raw video minus dive start difference.
func (e *OffsetError) DifferenceHours() float64 {
	return e.VideoTime.Sub(e.DiveStart).Hours()
}

// SuggestedStart is the manual --start value that lines the video up with the
// raw clock difference, never below zero.
func (e *OffsetError) SuggestedStart() int {
	start := int(e.VideoTime.Sub(e.DiveStart) / time.Second)
	if start < 0 {
		return 0
	}
	return start
}

// Details renders the multi-line diagnostic shown to users.
func (e *OffsetError) Details() string {
	var b strings.Builder
	b.WriteString("Cannot detect timezone offset between video and dive log\n\n")
	fmt.Fprintf(&b, "Video Information:\n   Creation time: %s\n", e.VideoTime.UTC().Format(time.DateTime+" MST"))
	if e.VideoDuration > 0 {
		fmt.Fprintf(&b, "   Duration: %.1fs\n", e.VideoDuration)
	}
	fmt.Fprintf(&b, "\nDive Information:\n   Start time: %s\n   End time: %s\n   Duration: %.0fs\n",
		e.DiveStart.UTC().Format(time.DateTime+" MST"), e.DiveEnd.UTC().Format(time.DateTime+" MST"),
		e.DiveEnd.Sub(e.DiveStart).Seconds())
	fmt.Fprintf(&b, "\nDiagnostics:\n   Tested timezone offsets: ±%d hours\n   No offset places video start within dive timeframe\n", e.MaxOffset)
	b.WriteString("\nPossible causes:\n")
	fmt.Fprintf(&b, "   - Video is from a different dive (time difference: %+.1f hours)\n", e.DifferenceHours())
	fmt.Fprintf(&b, "   - Timezone offset exceeds ±%d hours\n", e.MaxOffset)
	b.WriteString("   - Camera or dive computer clock is incorrect\n")
	b.WriteString("\nManual override options:\n")
	duration := "<seconds>"
	if e.VideoDuration > 0 {
		duration = fmt.Sprintf("%d", int(e.VideoDuration))
	}
	fmt.Fprintf(&b, "   --start %d --duration %s\n", e.SuggestedStart(), duration)
	return b.String()
}
