package shelltest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/macropower/shellkit/pkg/shell"
)

// Response is a pre-configured result for a command line.
type Response struct {
	Err      error
	Stdout   string
	Stderr   string
	ExitCode int
}

// Call records one command executed through a [FakeShell].
type Call struct {
	Env  map[string]string
	Dir  string
	Line string
	Args []string
}

// FakeShell is a [shell.Executor] that returns pre-configured responses
// instead of spawning processes. Responses are keyed by command line
// ("name arg1 arg2 ..."); an exact match wins, then the longest matching
// prefix. Every execution is recorded.
type FakeShell struct {
	responses map[string]Response

	// DefaultResponse is returned when no registered response matches. When
	// nil, unmatched command lines are an error.
	DefaultResponse *Response

	calls []Call
	mu    sync.Mutex
}

// NewFakeShell creates a [FakeShell] with no registered responses.
func NewFakeShell() *FakeShell {
	return &FakeShell{responses: map[string]Response{}}
}

// Register adds a response for command lines matching key.
func (f *FakeShell) Register(key string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.responses[key] = resp
}

// Run records the call and returns the matching response.
func (f *FakeShell) Run(_ context.Context, cmd *shell.Command) (*shell.Result, error) {
	line := strings.Join(cmd.Args(), " ")

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{
		Line: line,
		Args: cmd.Args(),
		Dir:  cmd.Dir(),
		Env:  cmd.Env(),
	})

	resp, ok := f.responses[line]
	if !ok {
		// Longest matching prefix wins.
		bestKey := ""
		for key := range f.responses {
			if strings.HasPrefix(line, key) && len(key) > len(bestKey) {
				bestKey = key
			}
		}

		if bestKey != "" {
			resp = f.responses[bestKey]
			ok = true
		}
	}

	if !ok {
		if f.DefaultResponse != nil {
			resp = *f.DefaultResponse
		} else {
			return nil, fmt.Errorf("%w: no response registered for %q", ErrTestRunner, line)
		}
	}

	res := &shell.Result{
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
		ExitCode: resp.ExitCode,
	}

	return res, resp.Err
}

// Calls returns every recorded execution, in order.
func (f *FakeShell) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := make([]Call, len(f.calls))
	copy(calls, f.calls)

	return calls
}

// Called reports whether a command line matching the given prefix ran.
func (f *FakeShell) Called(prefix string) bool {
	return f.CallCount(prefix) > 0
}

// CallCount returns how many executed command lines match the given prefix.
func (f *FakeShell) CallCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0

	for _, call := range f.calls {
		if strings.HasPrefix(call.Line, prefix) {
			count++
		}
	}

	return count
}
