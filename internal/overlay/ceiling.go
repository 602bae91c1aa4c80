package overlay

import "scubaoverlay/pkg/divelog"

// CeilingPoint is a ceiling depth in meters at a dive time.
type CeilingPoint struct {
	Time  int
	Depth float64
}

// CeilingRuns splits the reported decompression ceiling into runs of
// consecutive samples with a ceiling below the surface. Runs never span a
// sample without an obligation.
func CeilingRuns(samples []divelog.DiveSample) [][]CeilingPoint {
	var runs [][]CeilingPoint
	var cur []CeilingPoint
	for _, s := range samples {
		if s.StopDepth == nil || *s.StopDepth <= 0 {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, CeilingPoint{Time: s.Time, Depth: *s.StopDepth})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}
