// Package shellcmd orchestrates batches of shell commands with bounded
// concurrency and progress events.
//
// Commands that share a working directory are serialized; everything else
// runs concurrently up to the configured limit. Subscribers receive
// [EventSetTotal], [EventStarted] and [EventFinished] as work progresses.
package shellcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"

	"github.com/macropower/shellkit/pkg/pathutil"
	"github.com/macropower/shellkit/pkg/redact"
	"github.com/macropower/shellkit/pkg/shell"
	"github.com/macropower/shellkit/pkg/syncs"
)

var ErrBatchWorkerFailed = errors.New("batch worker failed")

// CommandResult pairs a batch command with its outcome.
type CommandResult struct {
	Err    error
	Result *shell.Result
	Name   string
}

// Runner executes a [Batch].
type Runner struct {
	batch          *Batch
	keys           *syncs.KeyLock
	tempPaths      *pathutil.RandomizedTempPaths
	exec           shell.Executor
	redactor       redact.Redactor
	subs           []func(any)
	results        []CommandResult
	maxConcurrency int
	mu             sync.RWMutex
}

// RunnerOpt configures a [Runner].
type RunnerOpt func(*Runner)

// WithMaxConcurrency caps the number of commands running at once. Takes
// precedence over the batch's own setting.
func WithMaxConcurrency(n int) RunnerOpt {
	return func(r *Runner) {
		if n > 0 {
			r.maxConcurrency = n
		}
	}
}

// WithExecutor substitutes the [shell.Executor] used to run each command.
func WithExecutor(e shell.Executor) RunnerOpt {
	return func(r *Runner) {
		if e != nil {
			r.exec = e
		}
	}
}

// WithRedactor applies the given redactor to every command in the batch.
func WithRedactor(rd redact.Redactor) RunnerOpt {
	return func(r *Runner) {
		if rd != nil {
			r.redactor = rd
		}
	}
}

// NewRunner creates a [Runner] for the given batch.
func NewRunner(batch *Batch, opts ...RunnerOpt) *Runner {
	r := &Runner{
		batch:     batch,
		keys:      syncs.NewKeyLock(),
		tempPaths: pathutil.NewRandomizedTempPaths(os.TempDir()),
		exec:      shell.Exec,
		redactor:  redact.Unredacted,
		subs:      []func(any){},
	}

	if batch.MaxConcurrency > 0 {
		r.maxConcurrency = batch.MaxConcurrency
	} else {
		r.maxConcurrency = runtime.GOMAXPROCS(0)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Subscribe registers a callback receiving progress events.
func (r *Runner) Subscribe(f func(any)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = append(r.subs, f)
}

func (r *Runner) broadcastEvent(evt any) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.subs {
		f(evt)
	}
}

// Run executes every command in the batch. Failures do not stop the batch;
// they are aggregated and returned once all commands have finished.
func (r *Runner) Run(ctx context.Context) error {
	logger := slog.With(
		slog.String("cmd", "batch_run"),
		slog.String("batch", r.batch.Name),
	)

	workerCount := int64(r.maxConcurrency)
	commandCount := len(r.batch.Commands)
	sem := semaphore.NewWeighted(workerCount)
	errChan := make(chan error, commandCount)

	r.broadcastEvent(EventSetTotal(commandCount))

	for i := range r.batch.Commands {
		bc := &r.batch.Commands[i]

		cmdLogger := logger.With(slog.String("name", bc.Name))

		err := sem.Acquire(ctx, 1)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBatchWorkerFailed, err)
		}

		r.broadcastEvent(EventStarted(bc.Name))

		go func() {
			defer sem.Release(1)

			cmdLogger.Info("running command")

			res, err := r.runOne(ctx, bc)

			r.appendResult(CommandResult{Name: bc.Name, Result: res, Err: err})
			r.broadcastEvent(EventFinished{Name: bc.Name, Result: res, Err: err})

			if err != nil {
				errChan <- fmt.Errorf("run %q: %w", bc.Name, err)

				return
			}

			cmdLogger.Info("finished command")
		}()
	}

	err := sem.Acquire(ctx, workerCount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBatchWorkerFailed, err)
	}

	if err := r.tempPaths.RemoveAll(); err != nil {
		logger.Warn("failed to remove temporary directories", slog.Any("err", err))
	}

	close(errChan)

	var merr error
	for err := range errChan {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		return merr
	}

	logger.Info("batch complete")

	return nil
}

// Results returns the outcomes collected so far, in completion order.
func (r *Runner) Results() []CommandResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]CommandResult, len(r.results))
	copy(results, r.results)

	return results
}

func (r *Runner) runOne(ctx context.Context, bc *BatchCommand) (*shell.Result, error) {
	var extra []shell.Option

	// Commands without a working directory each get their own managed temp
	// dir, removed once the whole batch has finished.
	if bc.Dir == "" && r.batch.Defaults.Dir == "" {
		dir, err := r.tempPaths.EnsurePath(bc.Name)
		if err != nil {
			return nil, err
		}

		extra = append(extra, shell.WithDir(dir))
	}

	cmd, err := bc.build(r.batch.Defaults, r.redactor, extra...)
	if err != nil {
		return nil, err
	}

	var res *shell.Result

	// Commands sharing a working directory must not interleave.
	key := dirKey(cmd.Dir(), bc.Name)
	r.keys.Do(key, func() {
		res, err = r.exec.Run(ctx, cmd)
	})

	return res, err
}

func (r *Runner) appendResult(cr CommandResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, cr)
}

func dirKey(dir, name string) string {
	if dir == "" {
		return "tmp:" + name
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "dir:" + dir
	}

	return "dir:" + abs
}
