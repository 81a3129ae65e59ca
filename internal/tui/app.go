// Package tui provides a live terminal dashboard for a running sink.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Geun-Oh/lxsink/internal/monitor"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#353533"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44AAFF")).
			Width(14)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

const (
	tickInterval = 500 * time.Millisecond
	historyLen   = 60
	barWidth     = 30
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// --- Messages ---

// TickMsg triggers a new snapshot.
type TickMsg time.Time

// DoneMsg signals the pipeline has finished.
type DoneMsg struct{}

// --- Model ---

// Model is the bubbletea model for the sink dashboard.
type Model struct {
	src    monitor.Source
	width  int
	height int
	paused bool
	done   bool

	snap    monitor.Snapshot
	prev    monitor.Snapshot
	prevAt  time.Time
	rate    float64   // records written per second over the last tick
	history []float64 // recent rates, oldest first
	peak    float64
}

// NewModel creates a dashboard over src.
func NewModel(src monitor.Source) Model {
	return Model{src: src, snap: src.Snapshot()}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), tea.WindowSize())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
		}
		return m, nil

	case TickMsg:
		if !m.paused {
			m.sample(time.Time(msg))
		}
		return m, tickCmd()

	case DoneMsg:
		m.done = true
		m.sample(time.Now())
		return m, nil
	}
	return m, nil
}

// sample takes a snapshot and updates the rate history.
func (m *Model) sample(now time.Time) {
	m.prev, m.snap = m.snap, m.src.Snapshot()
	if !m.prevAt.IsZero() {
		if secs := now.Sub(m.prevAt).Seconds(); secs > 0 {
			m.rate = float64(m.snap.Written-m.prev.Written) / secs
		}
	}
	m.prevAt = now

	m.history = append(m.history, m.rate)
	if len(m.history) > historyLen {
		m.history = m.history[len(m.history)-historyLen:]
	}
	if m.rate > m.peak {
		m.peak = m.rate
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	s := m.snap
	var sb strings.Builder

	title := titleStyle.Render(fmt.Sprintf(" lxsink — %s ", s.Name))
	status := "▶ RUNNING"
	switch {
	case m.done:
		status = "✔ DONE"
	case m.paused:
		status = "⏸ PAUSED"
	}
	statusText := statusBarStyle.Render(fmt.Sprintf(" %s  %s ", status, s.Elapsed.Round(time.Second)))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(statusText)
	if gap < 0 {
		gap = 0
	}
	sb.WriteString(title + statusBarStyle.Render(strings.Repeat(" ", gap)) + statusText)
	sb.WriteString("\n\n")

	fill := 0.0
	if s.Capacity > 0 {
		fill = float64(s.Depth) / float64(s.Capacity)
	}
	ring := fmt.Sprintf("%s %d/%d", renderBar(fill, barWidth), s.Depth, s.Capacity)
	if fill >= 0.9 {
		ring = warnStyle.Render(ring)
	}

	rows := []struct{ label, value string }{
		{"ring", ring},
		{"rate", fmt.Sprintf("%s %.0f/s (peak %.0f/s)", renderSpark(m.history, m.peak), m.rate, m.peak)},
		{"lines", fmt.Sprintf("%d read, %d matched", s.Lines, s.Matched)},
		{"records", fmt.Sprintf("%d enqueued, %d written", s.Enqueued, s.Written)},
		{"overwritten", lossValue(s.Overwritten)},
		{"rejected", lossValue(s.Rejected)},
		{"writer", fmt.Sprintf("%d bytes, %d flushes, %s errors", s.Bytes, s.Flushes, lossValue(s.WriteErrors))},
	}
	for _, r := range rows {
		sb.WriteString(" ")
		sb.WriteString(labelStyle.Render(r.label))
		sb.WriteString(r.value)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(" [p]Pause  [q]Quit"))
	return sb.String()
}

// --- Helpers ---

func lossValue(n uint64) string {
	if n == 0 {
		return dimStyle.Render("0")
	}
	return errorStyle.Render(fmt.Sprintf("%d", n))
}

// renderBar draws a horizontal bar filled to frac of width.
func renderBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if frac > 0 && filled == 0 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// renderSpark draws one block per sample, scaled to peak.
func renderSpark(samples []float64, peak float64) string {
	if len(samples) == 0 {
		return ""
	}
	var sb strings.Builder
	top := len(sparkRunes) - 1
	for _, v := range samples {
		i := 0
		if peak > 0 {
			i = int(v / peak * float64(top))
		}
		if i > top {
			i = top
		}
		sb.WriteRune(sparkRunes[i])
	}
	return sb.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
