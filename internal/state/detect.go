package state

import (
	"os"
)

const (
	ActionRender = "render"
	ActionSkip   = "skip"

	ReasonForced        = "forced"
	ReasonNew           = "new output"
	ReasonConfigChanged = "config changed"
	ReasonInputChanged  = "input changed"
	ReasonOutputMissing = "output missing"
	ReasonOutputChanged = "output changed"
	ReasonUpToDate      = "up to date"
)

// Decision is the action to take for one output.
type Decision struct {
	Action string
	Reason string
	// Prior is the recorded state when the output is up to date.
	Prior OutputState
}

// Decide compares the current inputs of output against the stored state.
func Decide(rs *RenderState, output, globalHash, inputHash string, force bool) Decision {
	if force {
		return Decision{Action: ActionRender, Reason: ReasonForced}
	}
	if globalHash != rs.GlobalConfigHash {
		return Decision{Action: ActionRender, Reason: ReasonConfigChanged}
	}

	prior, exists := rs.Outputs[output]
	if !exists {
		return Decision{Action: ActionRender, Reason: ReasonNew}
	}
	if inputHash != prior.InputHash {
		return Decision{Action: ActionRender, Reason: ReasonInputChanged}
	}

	info, err := os.Stat(output)
	if err != nil {
		return Decision{Action: ActionRender, Reason: ReasonOutputMissing}
	}
	if info.Size() != prior.Bytes {
		return Decision{Action: ActionRender, Reason: ReasonOutputChanged}
	}

	return Decision{Action: ActionSkip, Reason: ReasonUpToDate, Prior: prior}
}

// Prune removes entries whose output file no longer exists.
func Prune(rs *RenderState) {
	for key := range rs.Outputs {
		if _, err := os.Stat(key); err != nil {
			delete(rs.Outputs, key)
		}
	}
}
