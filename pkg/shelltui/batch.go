package shelltui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/macropower/shellkit/pkg/log"
	"github.com/macropower/shellkit/pkg/shellcmd"
)

// BatchRunner is the subset of [shellcmd.Runner] the TUI drives.
type BatchRunner interface {
	Run(ctx context.Context) error
	Subscribe(f func(any))
	Results() []shellcmd.CommandResult
}

// BatchTUI wraps a [BatchRunner] with a terminal UI. It satisfies
// [BatchRunner] itself, so callers can use either interchangeably.
type BatchTUI struct {
	runner BatchRunner
	p      *tea.Program
	w      io.Writer
}

// NewBatchTUI creates a [BatchTUI]. While a program is running, the default
// slog logger is routed into the UI so log lines render above the progress
// display instead of corrupting it.
func NewBatchTUI(w io.Writer, logLevel slog.Level, runner BatchRunner) *BatchTUI {
	c := &BatchTUI{
		runner: runner,
		w:      w,
	}

	c.runner.Subscribe(c.broadcastEvent)

	h := log.CreateHandler(c, logLevel, log.FormatText)
	slog.SetDefault(slog.New(h))

	return c
}

func (c *BatchTUI) broadcastEvent(evt any) {
	if c.p != nil {
		c.p.Send(evt)
	}
}

// Write forwards log output into the running program.
func (c *BatchTUI) Write(p []byte) (int, error) {
	c.broadcastEvent(teaMsgWriteLog(string(p)))

	return len(p), nil
}

// Subscribe registers an additional event subscriber on the wrapped runner.
func (c *BatchTUI) Subscribe(f func(any)) {
	c.runner.Subscribe(f)
}

// Results returns the wrapped runner's results.
func (c *BatchTUI) Results() []shellcmd.CommandResult {
	return c.runner.Results()
}

// Run executes the batch while rendering progress. The batch's own error is
// returned after the UI shuts down.
func (c *BatchTUI) Run(ctx context.Context) error {
	c.p = tea.NewProgram(NewRunModel(), tea.WithOutput(c.w))

	errChan := make(chan error, 1)

	go func() {
		err := c.runner.Run(ctx)
		c.broadcastEvent(shellcmd.EventDone{Err: err})
		errChan <- err
	}()

	_, err := c.p.Run()
	if err != nil {
		return fmt.Errorf("failed to launch tui: %w", err)
	}

	return <-errChan
}
