package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Geun-Oh/lxsink/internal/monitor"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// renderSummary draws the snapshot as a boxed panel. Loss counters are
// highlighted when non-zero.
func renderSummary(s monitor.Snapshot) string {
	loss := func(n uint64) string {
		v := fmt.Sprintf("%d", n)
		if n > 0 {
			return warnStyle.Render(v)
		}
		return v
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("lxsink " + s.Name))
	b.WriteString("\n\n")
	rows := [][2]string{
		{"lines", fmt.Sprintf("%d (%d matched)", s.Lines, s.Matched)},
		{"enqueued", fmt.Sprintf("%d", s.Enqueued)},
		{"written", fmt.Sprintf("%d (%d bytes, %d flushes)", s.Written, s.Bytes, s.Flushes)},
		{"overwritten", loss(s.Overwritten)},
		{"rejected", loss(s.Rejected)},
		{"write errors", loss(s.WriteErrors)},
		{"ring", fmt.Sprintf("%d/%d", s.Depth, s.Capacity)},
		{"elapsed", s.Elapsed.Round(time.Millisecond).String()},
		{"throughput", fmt.Sprintf("%.0f records/s", s.WriteRate())},
	}
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("%-13s", r[0])))
		b.WriteString(r[1])
	}
	return boxStyle.Render(b.String())
}
