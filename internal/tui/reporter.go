package tui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JackStrawNYC/dead-air-sub002/internal/engine"
)

// ExportReporter adapts bubbletea message sending to the
// engine.ProgressReporter interface.
type ExportReporter struct {
	send func(tea.Msg)
}

// NewExportReporter constructs a reporter that forwards chunk progress as row
// updates.
func NewExportReporter(send func(tea.Msg)) *ExportReporter {
	return &ExportReporter{send: send}
}

// ChunkKey returns the row key for a chunk.
func ChunkKey(index int) string {
	return fmt.Sprintf("chunk-%06d", index)
}

// Start implements engine.ProgressReporter.
func (r *ExportReporter) Start(chunk engine.Chunk) {
	r.send(RowUpdateMsg{
		Key: ChunkKey(chunk.Index),
		Fields: map[string]string{
			"STATUS": "evaluating",
		},
	})
}

// Complete implements engine.ProgressReporter.
func (r *ExportReporter) Complete(res engine.ChunkResult) {
	status := "exported"
	output := filepath.Base(res.OutputPath)
	if res.Err != nil {
		status = "error"
		output = res.Err.Error()
	}
	r.send(RowUpdateMsg{
		Key: ChunkKey(res.Chunk.Index),
		Fields: map[string]string{
			"STATUS": status,
			"OUTPUT": output,
		},
	})
}
