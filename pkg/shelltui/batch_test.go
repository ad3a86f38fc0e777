package shelltui_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shellkit/pkg/shelltest"
	"github.com/macropower/shellkit/pkg/shelltui"
)

func TestBatchTUI_ImplementsBatchRunner(t *testing.T) {
	t.Parallel()

	var _ shelltui.BatchRunner = (*shelltui.BatchTUI)(nil)
}

func TestBatchTUI_DelegatesToRunner(t *testing.T) {
	runner := shelltest.NewFakeRunner(
		shelltest.Outcome{Name: "ok", Stdout: "fine"},
		shelltest.Outcome{Name: "bad", Err: shelltest.ErrTestRunner},
	)

	var buf bytes.Buffer

	tui := shelltui.NewBatchTUI(&buf, slog.LevelWarn, runner)

	// The fake replays synchronously, so results appear after a direct run.
	err := runner.Run(t.Context())
	require.ErrorIs(t, err, shelltest.ErrTestRunner)

	results := tui.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "ok", results[0].Name)
	require.ErrorIs(t, results[1].Err, shelltest.ErrTestRunner)
}

func TestBatchTUI_SubscribePassesThrough(t *testing.T) {
	runner := shelltest.NewFakeRunner(
		shelltest.Outcome{Name: "ok"},
	)

	var buf bytes.Buffer

	tui := shelltui.NewBatchTUI(&buf, slog.LevelWarn, runner)

	var events []any

	tui.Subscribe(func(evt any) {
		events = append(events, evt)
	})

	require.NoError(t, runner.Run(t.Context()))
	assert.NotEmpty(t, events)
}
