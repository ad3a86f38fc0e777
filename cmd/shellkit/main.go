package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/macropower/shellkit/cmd/shellkit/commands"
	"github.com/macropower/shellkit/pkg/log"
)

func init() {
	// Default logger until the root command installs the flag-configured one.
	slog.SetDefault(log.NewWithCurrentConfig())
}

const (
	cmdName = "shellkit"

	shortDesc = "The shellkit Command Line Interface (CLI)."
	longDesc  = `The shellkit Command Line Interface (CLI).

Shellkit runs shell commands with sane subprocess hygiene: a minimal child
environment, temporary working directories, process-group cleanup on timeout
or cancellation, charset-aware output decoding, and secret redaction in logs.

Single commands run via 'shellkit run'; named sets of commands described in a
YAML file run concurrently via 'shellkit batch'.
`
)

func main() {
	cmd := commands.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(commands.MapExitCode(err))
	}
}
