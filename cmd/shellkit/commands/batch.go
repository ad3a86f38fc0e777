package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/macropower/shellkit/pkg/log"
	"github.com/macropower/shellkit/pkg/redact"
	"github.com/macropower/shellkit/pkg/shellcmd"
	"github.com/macropower/shellkit/pkg/shelltui"
)

const (
	batchDesc = `This command runs a batch of shell commands described in a YAML file
`
	batchExample = `  shellkit batch [flags] FILE
  # Run a batch with at most two commands in flight
  shellkit batch --max-concurrency 2 commands.yaml

  # Run without the progress UI and print a summary table
  shellkit batch --tui=false --report commands.yaml
`
)

var ErrBatchFailed = errors.New("batch failed")

// NewBatchCmd returns the batch command.
func NewBatchCmd(arg *RootArgs) *cobra.Command {
	args := NewBatchArgs(arg)

	cmd := &cobra.Command{
		Use:     "batch [flags] FILE",
		Short:   "Run a batch of commands",
		Long:    batchDesc,
		Example: batchExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			b, err := shellcmd.LoadBatch(argv[0])
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBatchFailed, err)
			}

			opts := []shellcmd.RunnerOpt{}
			if args.GetMaxConcurrency() > 0 {
				opts = append(opts, shellcmd.WithMaxConcurrency(args.GetMaxConcurrency()))
			}

			if len(args.GetRedact()) > 0 {
				opts = append(opts, shellcmd.WithRedactor(redact.Literals(args.GetRedact())))
			}

			br, err := newBatchRunner(cmd.OutOrStdout(), args, shellcmd.NewRunner(b, opts...))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBatchFailed, err)
			}

			runErr := br.Run(cmd.Context())

			if args.GetReport() {
				writeReport(cmd.OutOrStdout(), br.Results())
			}

			if runErr != nil {
				return fmt.Errorf("%w: %w", ErrBatchFailed, runErr)
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVarP(args.maxConcurrency, "max-concurrency", "c", 0,
		"Maximum commands in flight at once (0 uses the batch file or GOMAXPROCS)")
	cmd.Flags().BoolVar(args.tui, "tui", true, "Show the progress UI when stdout is a terminal")
	cmd.Flags().BoolVar(args.report, "report", false, "Print a summary table after the batch finishes")
	cmd.Flags().StringArrayVar(args.redact, "redact", nil, "Literal to mask in logged command lines (repeatable)")
	cmd.Flags().BoolVarP(args.quiet, "quiet", "q", false, "Run in quiet mode")

	return cmd
}

//nolint:ireturn // Multiple concrete types.
func newBatchRunner(w io.Writer, args *BatchArgs, runner *shellcmd.Runner) (shelltui.BatchRunner, error) {
	if args.GetQuiet() || !args.GetTUI() || termenv.EnvNoColor() || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runner, nil
	}

	lvl, err := log.GetLevel(args.GetLogLevel())
	if err != nil {
		// Should not be possible due to root's PersistentPreRunE.
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}

	return shelltui.NewBatchTUI(w, lvl, runner), nil
}

func writeReport(w io.Writer, results []shellcmd.CommandResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Name", "Exit", "Duration", "Status"})

	for _, cr := range results {
		exit := "-"
		duration := "-"

		if cr.Result != nil {
			exit = fmt.Sprintf("%d", cr.Result.ExitCode)
			duration = cr.Result.Duration.Round(time.Millisecond).String()
		}

		status := "ok"
		if cr.Err != nil {
			status = cr.Err.Error()
		}

		t.AppendRow(table.Row{cr.Name, exit, duration, status})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

type BatchArgs struct {
	redact         *[]string
	maxConcurrency *int
	tui            *bool
	report         *bool
	quiet          *bool
	*RootArgs
}

func NewBatchArgs(args *RootArgs) *BatchArgs {
	return &BatchArgs{
		redact:         new([]string),
		maxConcurrency: new(int),
		tui:            new(bool),
		report:         new(bool),
		quiet:          new(bool),
		RootArgs:       args,
	}
}

func (a *BatchArgs) GetRedact() []string {
	return *a.redact
}

func (a *BatchArgs) GetMaxConcurrency() int {
	return *a.maxConcurrency
}

func (a *BatchArgs) GetTUI() bool {
	return *a.tui
}

func (a *BatchArgs) GetReport() bool {
	return *a.report
}

func (a *BatchArgs) GetQuiet() bool {
	return *a.quiet
}
