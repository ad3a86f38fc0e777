package commands

import "errors"

// ExitError carries the exit code a command execution should propagate to the
// shell, alongside the underlying error.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// MapExitCode translates an error returned by [cobra.Command.Execute] into a
// process exit code. A nil error maps to 0, an [*ExitError] to its code, and
// anything else to 1.
func MapExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *ExitError
	if errors.As(err, &ee) && ee.Code > 0 {
		return ee.Code
	}

	return 1
}
