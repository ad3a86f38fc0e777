package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shellkit/cmd/shellkit/commands"
)

func writeBatchFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "batch.yaml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

func TestBatchCmd(t *testing.T) {
	path := writeBatchFile(t, `
name: test
commands:
  - name: hello
    args: [echo, hello]
  - name: world
    args: [echo, world]
`)

	stdout, stderr, err := executeRoot(t, "batch", "--tui=false", path)
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestBatchCmd_Report(t *testing.T) {
	path := writeBatchFile(t, `
commands:
  - name: hello
    run: echo hello
`)

	stdout, _, err := executeRoot(t, "batch", "--tui=false", "--report", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "NAME")
	assert.Contains(t, stdout, "hello")
	assert.Contains(t, stdout, "ok")
}

func TestBatchCmd_Failure(t *testing.T) {
	path := writeBatchFile(t, `
commands:
  - name: good
    args: [echo, ok]
  - name: bad
    args: [sh, -c, "exit 1"]
`)

	_, _, err := executeRoot(t, "batch", "--tui=false", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrBatchFailed)
	assert.Equal(t, 1, commands.MapExitCode(err))
}

func TestBatchCmd_FailureReport(t *testing.T) {
	path := writeBatchFile(t, `
commands:
  - name: bad
    args: [sh, -c, "exit 1"]
`)

	stdout, _, err := executeRoot(t, "batch", "--tui=false", "--report", path)
	require.Error(t, err)
	assert.Contains(t, stdout, "bad")
}

func TestBatchCmd_MissingFile(t *testing.T) {
	_, _, err := executeRoot(t, "batch", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrBatchFailed)
}

func TestBatchCmd_InvalidBatch(t *testing.T) {
	path := writeBatchFile(t, `
commands: []
`)

	_, _, err := executeRoot(t, "batch", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrBatchFailed)
}

func TestBatchCmd_MaxConcurrency(t *testing.T) {
	path := writeBatchFile(t, `
commands:
  - name: one
    args: [echo, one]
  - name: two
    args: [echo, two]
`)

	_, _, err := executeRoot(t, "batch", "--tui=false", "--max-concurrency", "1", path)
	require.NoError(t, err)
}
