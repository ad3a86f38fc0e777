package shell

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"

	"github.com/macropower/shellkit/pkg/procgroup"
)

// Result holds the outcome of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Run executes the command synchronously. It runs in the configured working
// directory, or in a temporary directory when none is set. A non-zero exit
// populates the [Result] and additionally returns a [*CmdError].
func (c *Command) Run(ctx context.Context) (*Result, error) {
	if c.dir != "" {
		return c.RunIn(ctx, c.dir)
	}

	return c.RunInTempDir(ctx)
}

// RunInTempDir executes the command in a fresh temporary directory, which is
// always removed afterwards.
func (c *Command) RunInTempDir(ctx context.Context) (*Result, error) {
	dir, err := os.MkdirTemp("", "shellkit-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(dir)
	}()

	return c.RunIn(ctx, dir)
}

// RunIn executes the command synchronously in the given directory.
func (c *Command) RunIn(ctx context.Context, dir string) (*Result, error) {
	p, err := c.startIn(dir)
	if err != nil {
		return nil, err
	}

	return p.Wait(ctx)
}

// Start launches the command asynchronously in the configured working
// directory and returns a [*Process] handle. Cancellation and timeouts apply
// once [Process.Wait] is called.
func (c *Command) Start() (*Process, error) {
	dir := c.dir
	if dir == "" {
		dir = os.TempDir()
	}

	return c.startIn(dir)
}

func (c *Command) buildCmd(dir string) *exec.Cmd {
	var cmd *exec.Cmd
	if c.viaShell {
		cmd = exec.Command("sh", "-c", shellquote.Join(c.args...))
	} else {
		cmd = exec.Command(c.args[0], c.args[1:]...)
	}

	cmd.Dir = dir
	procgroup.Set(cmd)

	return cmd
}

func (c *Command) startIn(dir string) (*Process, error) {
	execID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate execution id: %w", err)
	}

	logger := slog.With(slog.String("execID", execID.String()[:8]))

	argsLine := c.String()

	// Logged in a way that can be copy-and-pasted into a terminal.
	logger.Info(argsLine, slog.String("dir", dir))

	env := c.environ()

	cleanup, err := ensureTempDir(env)
	if err != nil {
		return nil, err
	}

	cmd := c.buildCmd(dir)
	cmd.Env = env

	p := &Process{
		c:        c,
		cmd:      cmd,
		argsLine: argsLine,
		cleanup:  cleanup,
		logger:   logger,
		done:     make(chan error, 1),
	}

	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr

	p.start = time.Now()

	err = cmd.Start()
	if err != nil {
		cleanup()

		return nil, newCmdError(argsLine, err, "")
	}

	go func() {
		p.done <- cmd.Wait()
	}()

	if c.timeout != 0 {
		p.timeoutCh = time.NewTimer(c.timeout).C
	}

	return p, nil
}

func exitCode(cmd *exec.Cmd) int {
	if cmd.ProcessState == nil {
		return -1
	}

	return cmd.ProcessState.ExitCode()
}
