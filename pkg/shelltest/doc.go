// Package shelltest provides testing utilities for shell command execution.
//
// [FakeShell] substitutes the process-spawning executor with pre-configured
// responses, recording every command line, directory and environment it sees.
// [FakeRunner] replays scripted batch outcomes through the same progress
// events as a real [shellcmd.Runner]. Neither spawns processes.
package shelltest
