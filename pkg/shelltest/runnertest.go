package shelltest

import (
	"context"
	"errors"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/macropower/shellkit/pkg/shell"
	"github.com/macropower/shellkit/pkg/shellcmd"
)

var ErrTestRunner = errors.New("test runner failure")

// Outcome scripts the result of one named command.
type Outcome struct {
	Err    error
	Stdout string
	Name   string
}

// FakeRunner emits shellcmd progress events for scripted outcomes, without
// spawning any processes. It satisfies the same contract as
// [shellcmd.Runner]: Subscribe, Run, Results.
type FakeRunner struct {
	outcomes []Outcome
	subs     []func(any)
	results  []shellcmd.CommandResult
	mu       sync.RWMutex
}

// NewFakeRunner creates a [FakeRunner] that will report the given outcomes in
// order.
func NewFakeRunner(outcomes ...Outcome) *FakeRunner {
	return &FakeRunner{outcomes: outcomes}
}

// Subscribe registers a callback receiving progress events.
func (f *FakeRunner) Subscribe(fn func(any)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.subs = append(f.subs, fn)
}

func (f *FakeRunner) broadcastEvent(evt any) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, fn := range f.subs {
		fn(evt)
	}
}

// Run replays the scripted outcomes as events and aggregates scripted
// failures exactly like a real batch run.
func (f *FakeRunner) Run(ctx context.Context) error {
	f.broadcastEvent(shellcmd.EventSetTotal(len(f.outcomes)))

	var merr error

	for _, o := range f.outcomes {
		if err := ctx.Err(); err != nil {
			return err
		}

		f.broadcastEvent(shellcmd.EventStarted(o.Name))

		res := &shell.Result{Stdout: o.Stdout}
		if o.Err != nil {
			res.ExitCode = 1
		}

		f.appendResult(shellcmd.CommandResult{Name: o.Name, Result: res, Err: o.Err})
		f.broadcastEvent(shellcmd.EventFinished{Name: o.Name, Result: res, Err: o.Err})

		if o.Err != nil {
			merr = multierror.Append(merr, o.Err)
		}
	}

	return merr
}

// Results returns the outcomes replayed so far.
func (f *FakeRunner) Results() []shellcmd.CommandResult {
	f.mu.RLock()
	defer f.mu.RUnlock()

	results := make([]shellcmd.CommandResult, len(f.results))
	copy(results, f.results)

	return results
}

func (f *FakeRunner) appendResult(cr shellcmd.CommandResult) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.results = append(f.results, cr)
}
