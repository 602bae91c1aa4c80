package cli

import (
	"path/filepath"
	"time"

	"scubaoverlay/internal/state"
)

// renderState pairs the stored state with the hashes of the current render.
type renderState struct {
	store  *state.RenderState
	key    string
	global string
	input  string
}

// loadRenderState fingerprints the render described by req and res. The
// fingerprint covers file contents, not names.
func (a *app) loadRenderState(req renderRequest, res renderResult) (*renderState, error) {
	logHash, err := state.FileHash(req.log)
	if err != nil {
		return nil, err
	}
	tplHash, err := state.FileHash(req.template)
	if err != nil {
		return nil, err
	}
	key, err := filepath.Abs(req.output)
	if err != nil {
		return nil, err
	}
	store, err := state.Load(a.paths.StateFile)
	if err != nil {
		return nil, err
	}
	in := state.Input{
		Log:        logHash,
		Template:   tplHash,
		Kind:       res.Kind,
		Units:      req.units,
		Width:      res.Width,
		Height:     res.Height,
		FPS:        res.FPS,
		Seconds:    res.Seconds,
		TimeOffset: res.TimeOffset,
		Fonts:      a.cfg.Fonts.Fallbacks,
	}
	return &renderState{
		store:  store,
		key:    key,
		global: state.GlobalConfigHash(a.cfg),
		input:  state.InputHash(in),
	}, nil
}

func (rs *renderState) decide(force bool) state.Decision {
	return state.Decide(rs.store, rs.key, rs.global, rs.input, force)
}

// saveRenderState records a finished render. A failed save is logged, not
// returned.
func (a *app) saveRenderState(rs *renderState, frames int, bytes int64) {
	rs.store.Record(rs.key, rs.global, rs.input, frames, bytes, time.Now().UTC())
	state.Prune(rs.store)
	if err := rs.store.Save(a.paths.StateFile); err != nil {
		a.log.Warnw("save render state", "path", a.paths.StateFile, "error", err)
	}
}
