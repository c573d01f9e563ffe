package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ssdetect/ssdetect/internal/model"
)

// updateBuffer is the capacity of the channel between the engine's
// collector and the display. The collector blocks only once this many
// messages are waiting for the terminal.
const updateBuffer = 64

// UISink adapts the engine's result stream into messages for the
// progress display. The engine calls Start, Record, and Summary from its
// collector goroutine; the owner of the run calls Close after the run
// returns, which lets the display drain and quit.
type UISink struct {
	updates chan tea.Msg
}

// NewUISink creates a sink for a single run.
func NewUISink() *UISink {
	return &UISink{updates: make(chan tea.Msg, updateBuffer)}
}

// Updates returns the message channel the display model consumes.
func (s *UISink) Updates() <-chan tea.Msg {
	return s.updates
}

// Start announces the enumeration total.
func (s *UISink) Start(total int) {
	s.updates <- startMsg{total: total}
}

// Record forwards one classification result.
func (s *UISink) Record(res model.ClassificationResult) {
	s.updates <- resultMsg{res: res}
}

// Summary forwards the final aggregate.
func (s *UISink) Summary(sum model.RunSummary) {
	s.updates <- summaryMsg{sum: sum}
}

// Close ends the stream. The display keeps consuming whatever was sent
// before Close and then quits, so callers should wait for the program
// to finish after calling it.
func (s *UISink) Close() {
	close(s.updates)
}
