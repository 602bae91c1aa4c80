package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"scubaoverlay/internal/overlay"
)

// Pipeline stage keys, in display order.
const (
	StageParse   = "parse"
	StageSegment = "segment"
	StageCompile = "compile"
	StageEncode  = "encode"
)

// Stages lists every pipeline stage.
var Stages = []string{StageParse, StageSegment, StageCompile, StageEncode}

var pipelineColumns = []Column{
	{Header: "STAGE", Width: 8},
	{Header: "STATUS", Width: 10},
	{Header: "DETAIL", Width: 48},
}

// NewPipelineModel builds a progress table with one pending row per stage.
func NewPipelineModel(title string, stages []string) ProgressModel {
	m := NewProgressModel(title, pipelineColumns)
	for _, s := range stages {
		m.AddRow(s, []string{s, "pending", ""})
	}
	return m
}

// PipelineReporter turns pipeline events into bubbletea messages.
type PipelineReporter struct {
	send func(tea.Msg)
}

// NewPipelineReporter wraps a program's send function.
func NewPipelineReporter(send func(tea.Msg)) *PipelineReporter {
	return &PipelineReporter{send: send}
}

// Stage sets a stage row's status and detail text.
func (r *PipelineReporter) Stage(key, status, detail string) {
	r.send(RowUpdateMsg{
		Key:    key,
		Fields: map[string]string{"STATUS": status, "DETAIL": detail},
	})
}

// Progress forwards encode progress to the bar.
func (r *PipelineReporter) Progress(p overlay.Progress) {
	r.send(EncodeProgressMsg{Done: p.Done, Total: p.Total})
}
