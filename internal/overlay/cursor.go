package overlay

import "scubaoverlay/pkg/divelog"

// Cursor finds the latest sample at or before a time. Consecutive queries
// with non-decreasing times scan forward from the previous position; an
// earlier time restarts the scan.
type Cursor struct {
	samples []divelog.DiveSample
	idx     int
	last    int
	started bool
}

func NewCursor(samples []divelog.DiveSample) *Cursor {
	return &Cursor{samples: samples}
}

func (c *Cursor) Len() int { return len(c.samples) }

// At returns the latest sample with Time <= t, or the first sample when t
// precedes them all. It reports false only for an empty sequence.
func (c *Cursor) At(t int) (divelog.DiveSample, bool) {
	i, ok := c.Index(t)
	if !ok {
		return divelog.DiveSample{}, false
	}
	return c.samples[i], true
}

// Index is At returning the sample's position.
func (c *Cursor) Index(t int) (int, bool) {
	if len(c.samples) == 0 {
		return 0, false
	}
	if c.started && t < c.last {
		c.idx = 0
	}
	c.started = true
	c.last = t
	for c.idx+1 < len(c.samples) && c.samples[c.idx+1].Time <= t {
		c.idx++
	}
	return c.idx, true
}
