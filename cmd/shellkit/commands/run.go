package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/macropower/shellkit/pkg/pathutil"
	"github.com/macropower/shellkit/pkg/redact"
	"github.com/macropower/shellkit/pkg/shell"
)

const (
	runDesc = `This command runs a single shell command
`
	runExample = `  shellkit run [flags] -- COMMAND [ARGS...]
  # Run a command in a specific directory
  shellkit run --dir /tmp -- ls -l

  # Run in a fresh temporary directory, removed afterwards
  shellkit run --temp -- git clone https://example.com/repo.git .

  # Pass environment variables and redact a secret from logs
  shellkit run --env TOKEN=hunter2 --redact hunter2 -- ./deploy.sh

  # Run a pipeline through the shell
  shellkit run --shell --dir . -- 'ls -l | wc -l'
`
)

var (
	ErrArgument        = errors.New("argument error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRunFailed       = errors.New("run failed")
)

// NewRunCmd returns the run command.
func NewRunCmd(arg *RootArgs) *cobra.Command {
	args := NewRunArgs(arg)

	cmd := &cobra.Command{
		Use:     "run [flags] -- COMMAND [ARGS...]",
		Short:   "Run a single command",
		Long:    runDesc,
		Example: runExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			opts, err := args.Options()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrArgument, err)
			}

			c, err := shell.New(argv, opts...)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrArgument, err)
			}

			ctx := cmd.Context()

			var res *shell.Result

			switch {
			case args.GetKeep() != "":
				var dir string

				dir, err = workspaceDir(args.GetKeep())
				if err != nil {
					return fmt.Errorf("%w: %w", ErrRunFailed, err)
				}

				res, err = c.RunIn(ctx, dir)
			case args.GetTemp():
				res, err = c.RunInTempDir(ctx)
			default:
				res, err = c.Run(ctx)
			}

			if res != nil && !args.GetQuiet() {
				if res.Stdout != "" {
					fmt.Fprintln(cmd.OutOrStdout(), res.Stdout)
				}

				if res.Stderr != "" {
					if args.GetCaptureStderr() {
						fmt.Fprintln(cmd.OutOrStdout(), res.Stderr)
					} else {
						fmt.Fprintln(cmd.ErrOrStderr(), res.Stderr)
					}
				}
			}

			if err != nil {
				rErr := fmt.Errorf("%w: %w", ErrRunFailed, err)
				if res != nil && res.ExitCode > 0 {
					return &ExitError{Err: rErr, Code: res.ExitCode}
				}

				return rErr
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(args.dir, "dir", "d", "", "Working directory for the command")
	if err := cmd.MarkFlagDirname("dir"); err != nil {
		panic(err)
	}

	cmd.Flags().BoolVarP(args.temp, "temp", "t", false, "Run in a fresh temporary directory, removed afterwards")
	cmd.Flags().StringArrayVarP(args.env, "env", "e", nil, "Environment variable for the child, as KEY=VALUE (repeatable)")
	cmd.Flags().DurationVar(args.timeout, "timeout", 0, "Kill the command after this duration (0 disables)")
	cmd.Flags().BoolVarP(args.shell, "shell", "s", false, "Quote the arguments and run them through 'sh -c'")
	cmd.Flags().StringVar(args.charset, "charset", "", "Decode command output from this IANA charset")
	cmd.Flags().StringArrayVar(args.redact, "redact", nil, "Literal to mask in logged command lines (repeatable)")
	cmd.Flags().BoolVar(args.captureStderr, "capture-stderr", false, "Write the command's stderr to stdout")
	cmd.Flags().BoolVarP(args.quiet, "quiet", "q", false, "Suppress command output, report only the exit code")
	cmd.Flags().StringVarP(args.keep, "keep", "k", "",
		"Run in a named workspace under the system temp directory, kept across runs")

	cmd.MarkFlagsMutuallyExclusive("dir", "temp", "keep")

	return cmd
}

// workspaceDir resolves a stable per-name workspace directory. The same name
// maps to the same directory on every invocation.
func workspaceDir(name string) (string, error) {
	paths := pathutil.NewStaticTempPaths(
		filepath.Join(os.TempDir(), "shellkit-workspaces"),
		pathutil.NewBase64PathEncoder(),
	)

	dir, err := paths.GetPath(name)
	if err != nil {
		return "", fmt.Errorf("resolve workspace %q: %w", name, err)
	}

	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		return "", fmt.Errorf("create workspace %q: %w", name, err)
	}

	return dir, nil
}

type RunArgs struct {
	dir           *string
	keep          *string
	charset       *string
	env           *[]string
	redact        *[]string
	timeout       *time.Duration
	temp          *bool
	shell         *bool
	captureStderr *bool
	quiet         *bool
	*RootArgs
}

func NewRunArgs(args *RootArgs) *RunArgs {
	return &RunArgs{
		dir:           new(string),
		keep:          new(string),
		charset:       new(string),
		env:           new([]string),
		redact:        new([]string),
		timeout:       new(time.Duration),
		temp:          new(bool),
		shell:         new(bool),
		captureStderr: new(bool),
		quiet:         new(bool),
		RootArgs:      args,
	}
}

func (a *RunArgs) GetDir() string {
	return *a.dir
}

func (a *RunArgs) GetKeep() string {
	return *a.keep
}

func (a *RunArgs) GetCharset() string {
	return *a.charset
}

func (a *RunArgs) GetEnv() []string {
	return *a.env
}

func (a *RunArgs) GetRedact() []string {
	return *a.redact
}

func (a *RunArgs) GetTimeout() time.Duration {
	return *a.timeout
}

func (a *RunArgs) GetTemp() bool {
	return *a.temp
}

func (a *RunArgs) GetShell() bool {
	return *a.shell
}

func (a *RunArgs) GetCaptureStderr() bool {
	return *a.captureStderr
}

func (a *RunArgs) GetQuiet() bool {
	return *a.quiet
}

// Options translates the parsed flags into [shell.Option] values.
func (a *RunArgs) Options() ([]shell.Option, error) {
	var opts []shell.Option

	if a.GetDir() != "" {
		opts = append(opts, shell.WithDir(a.GetDir()))
	}

	if len(a.GetEnv()) > 0 {
		env, err := parseEnv(a.GetEnv())
		if err != nil {
			return nil, err
		}

		opts = append(opts, shell.WithEnv(env))
	}

	if a.GetTimeout() > 0 {
		opts = append(opts, shell.WithTimeout(a.GetTimeout()))
	}

	if a.GetShell() {
		opts = append(opts, shell.WithShell())
	}

	if a.GetCharset() != "" {
		opts = append(opts, shell.WithCharset(a.GetCharset()))
	}

	if len(a.GetRedact()) > 0 {
		opts = append(opts, shell.WithRedactor(redact.Literals(a.GetRedact())))
	}

	return opts, nil
}

func parseEnv(kvs []string) (map[string]string, error) {
	env := make(map[string]string, len(kvs))

	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: env: %q is not KEY=VALUE", ErrInvalidArgument, kv)
		}

		env[k] = v
	}

	return env, nil
}
