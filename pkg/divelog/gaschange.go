package divelog

import (
	"slices"
	"sort"
)

// GasChange switches the breathing mix from Time onward.
type GasChange struct {
	Time       int
	FractionO2 *float64
	FractionHe *float64
}

// ApplyGasChanges returns a copy of samples where each change is forward-filled
// from the first sample at or after its time, overwriting any mix already
// present. Changes apply in time order, so the later change wins on the suffix
// two changes share. The input slice is not modified.
func ApplyGasChanges(samples []DiveSample, changes []GasChange) []DiveSample {
	out := make([]DiveSample, len(samples))
	copy(out, samples)
	if len(changes) == 0 {
		return out
	}

	ordered := slices.Clone(changes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Time < ordered[j].Time })

	for _, change := range ordered {
		first := sort.Search(len(out), func(i int) bool { return out[i].Time >= change.Time })
		for i := first; i < len(out); i++ {
			out[i].FractionO2 = change.FractionO2
			out[i].FractionHe = change.FractionHe
		}
	}
	return out
}
