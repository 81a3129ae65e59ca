package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Geun-Oh/lxsink/internal/monitor"
)

// Run shows the dashboard for src until the user quits or ctx is cancelled.
// When done closes the dashboard stays up, marked finished, so the final
// counters can be read.
func Run(ctx context.Context, src monitor.Source, done <-chan struct{}) error {
	program := tea.NewProgram(NewModel(src), tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		select {
		case <-done:
			program.Send(DoneMsg{})
		case <-ctx.Done():
		}
	}()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
