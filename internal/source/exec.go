package source

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/Geun-Oh/lxsink/internal/entry"
)

// ExecSource runs a command and streams its stdout and stderr lines.
type ExecSource struct {
	command string
	args    []string
	seq     atomic.Uint64

	mu  sync.Mutex
	err error
}

// NewExecSource creates a source that runs command with args.
func NewExecSource(command string, args []string) *ExecSource {
	return &ExecSource{command: command, args: args}
}

// Name returns the source identifier.
func (s *ExecSource) Name() string {
	return "exec:" + s.command
}

// Start launches the command. The channel closes after the command exits
// and both streams are drained.
func (s *ExecSource) Start(ctx context.Context) (<-chan entry.LogEntry, error) {
	cmd := exec.CommandContext(ctx, s.command, s.args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start command %s: %w", s.command, err)
	}

	ch := make(chan entry.LogEntry, chanSize)
	sc := scanner{name: s.Name(), seq: &s.seq}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); sc.scan(ctx, "stdout", stdout, ch) }()
	go func() { defer wg.Done(); sc.scan(ctx, "stderr", stderr, ch) }()

	go func() {
		wg.Wait()
		werr := cmd.Wait()
		s.mu.Lock()
		s.err = werr
		s.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// Err returns the command's exit error once the channel has closed.
func (s *ExecSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
