package shellcmd

import "github.com/macropower/shellkit/pkg/shell"

type (
	// Sent to update the total command count.
	EventSetTotal int

	// Sent when a command has started.
	EventStarted string

	// Sent when a command has finished, successfully or not.
	EventFinished struct {
		Err    error
		Result *shell.Result
		Name   string
	}

	// Sent when all work has completed.
	EventDone struct {
		Err error
	}
)
