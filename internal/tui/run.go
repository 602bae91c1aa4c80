package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user quits the display before the work
// finished.
var ErrInterrupted = errors.New("interrupted")

// RunWithWork creates a bubbletea program, launches workFn in a goroutine,
// and blocks until both have finished. workFn receives a context that is
// cancelled when the user quits, and a send callback that wraps
// tea.Program.Send with a small yield to give the renderer time to draw
// between updates.
func RunWithWork(ctx context.Context, out io.Writer, model ProgressModel, workFn func(ctx context.Context, send func(tea.Msg)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(model, tea.WithOutput(out))
	workErr := make(chan error, 1)

	go func() {
		// Let bubbletea start its event loop and render the initial frame.
		time.Sleep(50 * time.Millisecond)

		err := workFn(ctx, func(msg tea.Msg) {
			p.Send(msg)
			time.Sleep(5 * time.Millisecond)
		})
		workErr <- err
		if err != nil {
			p.Send(ErrorMsg{Err: err})
			return
		}
		p.Send(WorkDoneMsg{})
	}()

	finalModel, runErr := p.Run()
	// A quit from the keyboard leaves the work running; stop it and wait.
	cancel()
	err := <-workErr

	if runErr != nil {
		return runErr
	}
	if m, ok := finalModel.(ProgressModel); ok && m.Interrupted() {
		return ErrInterrupted
	}
	return err
}
