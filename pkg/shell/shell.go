// Package shell executes commands, synchronously or asynchronously, in a
// caller-provided working directory or in a managed temporary directory.
//
// By default the child process inherits only PATH and TMPDIR from the parent
// environment; additional variables are merged on top via [WithEnv], or the
// full parent environment can be opted into with [WithInheritedEnv].
package shell

import (
	"errors"
	"fmt"
	"slices"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
	"golang.org/x/text/encoding"

	"github.com/macropower/shellkit/pkg/redact"
)

var (
	ErrNoArgs         = errors.New("no arguments provided")
	ErrUnknownCharset = errors.New("unknown charset")
)

// TimeoutBehavior defines behavior for when the command takes longer than the
// configured timeout to exit. By default, SIGKILL is sent to the process group
// and it is not waited upon.
type TimeoutBehavior struct {
	// Signal determines the signal to send to the process group.
	Signal syscall.Signal
	// ShouldWait determines whether to wait for the command to exit once
	// timeout is reached.
	ShouldWait bool
}

// DefaultTimeoutBehavior kills the whole process group without waiting.
var DefaultTimeoutBehavior = TimeoutBehavior{Signal: syscall.SIGKILL, ShouldWait: false}

// Command describes a shell invocation. It is immutable and safe for
// concurrent use; each [Command.Run] or [Command.Start] spawns an independent
// process.
type Command struct {
	encoding        encoding.Encoding
	redactor        redact.Redactor
	env             map[string]string
	dir             string
	charset         string
	args            []string
	timeout         time.Duration
	timeoutBehavior TimeoutBehavior
	inheritEnv      bool
	viaShell        bool
}

// Option configures a [Command].
type Option func(*Command)

// New creates a [Command] for the given argument vector.
func New(args []string, opts ...Option) (*Command, error) {
	if len(args) == 0 {
		return nil, ErrNoArgs
	}

	c := &Command{
		args:            slices.Clone(args),
		env:             map[string]string{},
		timeoutBehavior: DefaultTimeoutBehavior,
		redactor:        redact.Unredacted,
	}
	for _, opt := range opts {
		opt(c)
	}

	enc, err := lookupCharset(c.charset)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownCharset, err)
	}

	c.encoding = enc

	return c, nil
}

// WithDir sets the working directory. When unset, [Command.Run] executes in a
// temporary directory.
func WithDir(dir string) Option {
	return func(c *Command) {
		c.dir = dir
	}
}

// WithEnv merges the given variables on top of the base environment.
func WithEnv(env map[string]string) Option {
	return func(c *Command) {
		for k, v := range env {
			c.env[k] = v
		}
	}
}

// WithInheritedEnv bases the child environment on the full parent environment
// instead of only PATH and TMPDIR.
func WithInheritedEnv() Option {
	return func(c *Command) {
		c.inheritEnv = true
	}
}

// WithShell runs the argument vector through `sh -c`, with each argument
// shell-quoted.
func WithShell() Option {
	return func(c *Command) {
		c.viaShell = true
	}
}

// WithCharset sets the IANA charset used to decode captured output.
func WithCharset(name string) Option {
	return func(c *Command) {
		c.charset = name
	}
}

// WithTimeout bounds the command's runtime. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Command) {
		c.timeout = d
	}
}

// WithTimeoutBehavior configures what to do in case of timeout.
func WithTimeoutBehavior(tb TimeoutBehavior) Option {
	return func(c *Command) {
		if tb.Signal != syscall.Signal(0) {
			c.timeoutBehavior = tb
		}
	}
}

// WithRedactor redacts secrets from logged command lines and output.
func WithRedactor(r redact.Redactor) Option {
	return func(c *Command) {
		if r != nil {
			c.redactor = r
		}
	}
}

// Args returns a copy of the argument vector.
func (c *Command) Args() []string {
	return slices.Clone(c.args)
}

// Dir returns the configured working directory, which may be empty.
func (c *Command) Dir() string {
	return c.dir
}

// Env returns a copy of the caller-supplied environment additions.
func (c *Command) Env() map[string]string {
	env := make(map[string]string, len(c.env))
	for k, v := range c.env {
		env[k] = v
	}

	return env
}

// String returns the redacted, shell-quoted command line.
func (c *Command) String() string {
	return c.redactor(shellquote.Join(c.args...))
}
