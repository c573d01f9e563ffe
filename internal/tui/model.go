package tui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ssdetect/ssdetect/internal/model"
)

// recentRows is how many of the latest results the display keeps on
// screen.
const recentRows = 10

type startMsg struct {
	total int
}

type resultMsg struct {
	res model.ClassificationResult
}

type summaryMsg struct {
	sum model.RunSummary
}

type doneMsg struct{}

// Model is the bubbletea model for a classification run. It consumes the
// UISink message channel until the sink closes it.
//
// Design decision: Pressing q or ctrl+c cancels the run through the
// injected cancel function instead of quitting the program. The workers
// keep producing results while they drain, and the display has to keep
// consuming them or the engine's collector would block on a full
// channel. The program quits only when the sink closes the channel.
type Model struct {
	updates <-chan tea.Msg
	cancel  context.CancelFunc
	started time.Time

	width       int
	total       int
	processed   int
	screenshots int
	regular     int
	errors      int
	relocated   int
	recent      []model.ClassificationResult
	summary     *model.RunSummary
	cancelling  bool
	quitting    bool
}

// NewModel creates a display model consuming updates. cancel is invoked
// once when the user requests cancellation; it may be nil.
func NewModel(updates <-chan tea.Msg, cancel context.CancelFunc) Model {
	return Model{updates: updates, cancel: cancel, started: time.Now()}
}

// Init arms the first channel read.
func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

// Update advances the model for one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		m.total = msg.total
		return m, listenForUpdates(m.updates)
	case resultMsg:
		m.record(msg.res)
		return m, listenForUpdates(m.updates)
	case summaryMsg:
		m.summary = &msg.sum
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.cancelling {
				m.cancelling = true
				if m.cancel != nil {
					m.cancel()
				}
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

// record folds one result into the counters and the recent list.
func (m *Model) record(res model.ClassificationResult) {
	m.processed++
	switch res.Verdict {
	case model.VerdictScreenshot:
		m.screenshots++
	case model.VerdictError:
		m.errors++
	default:
		m.regular++
	}
	if res.RelocatedTo != "" {
		m.relocated++
	}

	m.recent = append(m.recent, res)
	if len(m.recent) > recentRows {
		m.recent = m.recent[len(m.recent)-recentRows:]
	}
}

// View renders the current frame.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.processed) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("ssdetect"),
		barStyle.Render(renderBar(barWidth, ratio)) +
			labelStyle.Render(fmt.Sprintf(" %d/%d", m.processed, m.total)),
		screenshotStyle.Render(fmt.Sprintf("screenshots:%d", m.screenshots)) +
			regularStyle.Render(fmt.Sprintf("  regular:%d", m.regular)) +
			errorStyle.Render(fmt.Sprintf("  errors:%d", m.errors)),
	}
	if m.relocated > 0 {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("relocated: %d", m.relocated)))
	}
	lines = append(lines, dimStyle.Render(fmt.Sprintf("elapsed: %s", elapsed)))

	for _, res := range m.recent {
		lines = append(lines, resultLine(res))
	}

	if m.cancelling {
		lines = append(lines, dimStyle.Render("cancelling, waiting for workers to finish..."))
	} else {
		lines = append(lines, dimStyle.Render("press q to cancel"))
	}

	return strings.Join(lines, "\n")
}

// resultLine renders one recent result as a marker plus the file name.
func resultLine(res model.ClassificationResult) string {
	name := filepath.Base(res.Path)
	switch res.Verdict {
	case model.VerdictScreenshot:
		return screenshotStyle.Render("  ● " + name)
	case model.VerdictError:
		return errorStyle.Render("  ✗ " + name)
	default:
		return dimStyle.Render("  ○ " + name)
	}
}

func listenForUpdates(updates <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return msg
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}
