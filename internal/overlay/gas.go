package overlay

import (
	"fmt"
	"math"

	"scubaoverlay/pkg/divelog"
)

// GasMark is the first sample breathing a given mix.
type GasMark struct {
	Time       int
	Depth      float64 // meters
	FractionO2 float64
	FractionHe float64
	Label      string
}

// GasLabel names a mix: AIR, EAN<o2> for nitrox or <o2>/<he> for trimix.
func GasLabel(o2, he float64) string {
	o2pct := int(math.Round(o2 * 100))
	hePct := int(math.Round(he * 100))
	switch {
	case hePct == 0 && o2pct == 21:
		return "AIR"
	case hePct == 0:
		return fmt.Sprintf("EAN%d", o2pct)
	}
	return fmt.Sprintf("%d/%d", o2pct, hePct)
}

type gasKey struct {
	o2, he float64
}

// DetectGasChanges returns one mark per distinct (O2, He) pair at its first
// occurrence. Samples with no O2 fraction are skipped and a missing He
// fraction counts as zero. With markInitial unset the first mix breathed is
// not marked.
func DetectGasChanges(samples []divelog.DiveSample, markInitial bool) []GasMark {
	seen := map[gasKey]bool{}
	var marks []GasMark
	for _, s := range samples {
		if s.FractionO2 == nil {
			continue
		}
		key := gasKey{o2: *s.FractionO2}
		if s.FractionHe != nil {
			key.he = *s.FractionHe
		}
		if seen[key] {
			continue
		}
		first := len(seen) == 0
		seen[key] = true
		if first && !markInitial {
			continue
		}
		marks = append(marks, GasMark{
			Time:       s.Time,
			Depth:      s.Depth,
			FractionO2: key.o2,
			FractionHe: key.he,
			Label:      GasLabel(key.o2, key.he),
		})
	}
	return marks
}
