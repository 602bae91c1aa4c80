package divelog

import "fmt"

// Patch is the sparse update carried by one log record. Nil fields leave the
// previous value in place.
type Patch struct {
	Time        int
	Depth       *float64
	NDL         *int
	TTS         *int
	StopDepth   *float64
	StopTime    *int
	Temperature *float64
	FractionO2  *float64
	FractionHe  *float64
	SAC         *float64
	GTR         *int
	PPO2        *float64

	// Pressure and PPO2Sensors map a slot index to its new reading. A present
	// key with a nil value clears the slot. Indexes outside the slots declared
	// by the initial sample are ignored.
	Pressure    map[int]*float64
	PPO2Sensors map[int]*float64
}

// Apply returns the state that follows prev once p is applied. prev is not
// modified.
func (p Patch) Apply(prev DiveSample) DiveSample {
	next := prev.Clone()
	next.Time = p.Time
	if p.Depth != nil {
		next.Depth = *p.Depth
	}
	setInt(&next.NDL, p.NDL)
	setInt(&next.TTS, p.TTS)
	setFloat(&next.StopDepth, p.StopDepth)
	setInt(&next.StopTime, p.StopTime)
	setFloat(&next.Temperature, p.Temperature)
	setFloat(&next.FractionO2, p.FractionO2)
	setFloat(&next.FractionHe, p.FractionHe)
	setFloat(&next.SAC, p.SAC)
	setInt(&next.GTR, p.GTR)
	setFloat(&next.PPO2, p.PPO2)
	applySlots(next.Pressure, p.Pressure)
	applySlots(next.PPO2Sensors, p.PPO2Sensors)
	return next
}

// BuildSamples folds patches over initial, producing one full-state sample per
// patch. Sample times must not decrease.
func BuildSamples(initial DiveSample, patches []Patch) ([]DiveSample, error) {
	samples := make([]DiveSample, 0, len(patches))
	state := initial.Clone()
	for i, p := range patches {
		if i > 0 && p.Time < state.Time {
			return nil, &SampleError{
				Index: i,
				Field: "time",
				Value: fmt.Sprintf("%d", p.Time),
				Err:   fmt.Errorf("precedes previous sample time %d", state.Time),
			}
		}
		state = p.Apply(state)
		samples = append(samples, state)
	}
	return samples, nil
}

func setInt(dst **int, src *int) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

func setFloat(dst **float64, src *float64) {
	if src == nil {
		return
	}
	v := *src
	*dst = &v
}

func applySlots(slots []*float64, updates map[int]*float64) {
	for idx, value := range updates {
		if idx < 0 || idx >= len(slots) {
			continue
		}
		if value == nil {
			slots[idx] = nil
			continue
		}
		v := *value
		slots[idx] = &v
	}
}
