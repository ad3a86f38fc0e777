package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/macropower/shellkit/pkg/procgroup"
)

// Process is a handle on a started asynchronous command. Its captured output
// becomes available through the [Result] returned by [Process.Wait].
type Process struct {
	c         *Command
	cmd       *exec.Cmd
	logger    *slog.Logger
	cleanup   func()
	done      chan error
	timeoutCh <-chan time.Time
	result    *Result
	err       error
	argsLine  string
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	start     time.Time
	waitOnce  sync.Once
}

// PID returns the process ID of the running command.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Signal delivers sig to the whole process group.
func (p *Process) Signal(sig syscall.Signal) error {
	return procgroup.Kill(p.cmd, sig)
}

// Output returns the [Result] captured by a completed [Process.Wait], or nil
// when the process has not been waited on.
func (p *Process) Output() *Result {
	return p.result
}

// Wait blocks until the command exits, the configured timeout fires, or ctx
// is canceled. It is safe to call multiple times; subsequent calls return the
// first outcome.
func (p *Process) Wait(ctx context.Context) (*Result, error) {
	p.waitOnce.Do(func() {
		p.result, p.err = p.wait(ctx)
	})

	return p.result, p.err
}

func (p *Process) wait(ctx context.Context) (*Result, error) {
	defer p.cleanup()

	tb := p.c.timeoutBehavior

	select {
	case <-p.timeoutCh:
		_ = procgroup.Kill(p.cmd, tb.Signal)
		if tb.ShouldWait {
			<-p.done
		}

		res, _ := p.collect()
		err := newCmdError(p.argsLine, fmt.Errorf("timeout after %v", p.c.timeout), "")
		p.logger.Error(err.Error())

		return res, err

	case <-ctx.Done():
		_ = procgroup.Kill(p.cmd, syscall.SIGKILL)
		<-p.done

		res, _ := p.collect()
		err := newCmdError(p.argsLine, ctx.Err(), "")
		p.logger.Error(err.Error())

		return res, err

	case err := <-p.done:
		res, decErr := p.collect()
		if decErr != nil {
			return nil, newCmdError(p.argsLine, decErr, "")
		}

		if err != nil {
			redactor := p.c.redactor
			cmdErr := newCmdError(p.argsLine,
				errors.New(redactor(err.Error())),
				strings.TrimSpace(redactor(res.Stderr)),
			)
			p.logger.Error(cmdErr.Error())

			return res, cmdErr
		}

		p.logger.Debug(p.c.redactor(res.Stdout),
			slog.Duration("duration", res.Duration),
		)

		return res, nil
	}
}

func (p *Process) collect() (*Result, error) {
	stdout, err := p.c.decodeOutput(p.stdout.Bytes())
	if err != nil {
		return nil, err
	}

	stderr, err := p.c.decodeOutput(p.stderr.Bytes())
	if err != nil {
		return nil, err
	}

	return &Result{
		Stdout:   stdout,
		Stderr:   stderr,
		ExitCode: exitCode(p.cmd),
		Duration: time.Since(p.start),
	}, nil
}
