package shell

import "context"

// Executor abstracts running a built [*Command]. Production code uses [Exec];
// tests inject a recording fake.
type Executor interface {
	Run(ctx context.Context, cmd *Command) (*Result, error)
}

// ExecutorFunc adapts a function to an [Executor].
type ExecutorFunc func(ctx context.Context, cmd *Command) (*Result, error)

func (f ExecutorFunc) Run(ctx context.Context, cmd *Command) (*Result, error) {
	return f(ctx, cmd)
}

// Exec is the default [Executor]. It spawns the process via [Command.Run].
var Exec Executor = ExecutorFunc(func(ctx context.Context, cmd *Command) (*Result, error) {
	return cmd.Run(ctx)
})
