// Package divelog decodes dive computer exports into a canonical, time-ordered
// sequence of full-state samples. Canonical units are meters, bar and Celsius
// regardless of the source format.
package divelog

import "time"

// DiveSample is one instant of dive computer state. Optional readings are nil
// until a log record sets them; once set they carry forward into every later
// sample until a record overwrites them.
//
// Pointed-to values are never written after a sample is built, so samples may
// share them freely.
type DiveSample struct {
	Time        int        // seconds from dive start
	Depth       float64    // meters
	NDL         *int       // minutes
	TTS         *int       // minutes
	StopDepth   *float64   // meters, 0 means no obligation
	StopTime    *int       // minutes
	Temperature *float64   // Celsius
	Pressure    []*float64 // bar, one slot per cylinder
	FractionO2  *float64
	FractionHe  *float64
	SAC         *float64
	GTR         *int // seconds
	PPO2        *float64
	PPO2Sensors []*float64 // bar, up to three cells
}

// Clone returns a copy of s that shares no slice storage with it.
func (s DiveSample) Clone() DiveSample {
	s.Pressure = cloneSlots(s.Pressure)
	s.PPO2Sensors = cloneSlots(s.PPO2Sensors)
	return s
}

// DiveData is a parsed single-dive log.
type DiveData struct {
	Samples   []DiveSample
	StartTime time.Time // UTC
	EndTime   time.Time // StartTime + last sample time
	Format    string
}

// Duration returns the time of the last sample in seconds.
func (d DiveData) Duration() int {
	if len(d.Samples) == 0 {
		return 0
	}
	return d.Samples[len(d.Samples)-1].Time
}

func newDiveData(samples []DiveSample, start time.Time, format string) DiveData {
	data := DiveData{
		Samples:   samples,
		StartTime: start,
		Format:    format,
	}
	data.EndTime = start.Add(time.Duration(data.Duration()) * time.Second)
	return data
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func cloneSlots(slots []*float64) []*float64 {
	if slots == nil {
		return nil
	}
	out := make([]*float64, len(slots))
	copy(out, slots)
	return out
}
