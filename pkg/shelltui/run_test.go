package shelltui_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shellkit/pkg/shellcmd"
	"github.com/macropower/shellkit/pkg/shelltui"
)

func TestRunModel_OneSuccess(t *testing.T) {
	t.Parallel()

	m := shelltui.NewRunModel()
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(shellcmd.EventSetTotal(1))
	tm.Send(shellcmd.EventStarted("lint"))
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("lint")) &&
				bytes.Contains(bts, []byte("0/1"))
		},
	)

	tm.Send(shellcmd.EventFinished{Name: "lint"})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✓ lint"))
		},
	)

	tm.Send(shellcmd.EventDone{})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Done! Ran 1 commands.")
}

func TestRunModel_OneError(t *testing.T) {
	t.Parallel()

	m := shelltui.NewRunModel()
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(shellcmd.EventSetTotal(1))
	tm.Send(shellcmd.EventStarted("lint"))
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("lint"))
		},
	)

	tm.Send(shellcmd.EventFinished{Name: "lint", Err: errors.New("lint error")})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✗ lint"))
		},
	)

	tm.Send(shellcmd.EventDone{Err: errors.New("lint error")})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)
	assert.Contains(t, string(out), "lint error")
}

func TestRunModel_MultipleCommands(t *testing.T) {
	t.Parallel()

	m := shelltui.NewRunModel()
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(shellcmd.EventSetTotal(2))
	tm.Send(shellcmd.EventStarted("vet"))
	tm.Send(shellcmd.EventStarted("test"))
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("vet")) &&
				bytes.Contains(bts, []byte("test"))
		},
	)

	tm.Send(shellcmd.EventFinished{Name: "vet"})
	tm.Send(shellcmd.EventFinished{Name: "test"})
	tm.Send(shellcmd.EventDone{})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)
	assert.Contains(t, string(out), "Done! Ran 2 commands.")
}

func TestRunModel_QuitKey(t *testing.T) {
	t.Parallel()

	m := shelltui.NewRunModel()
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(shellcmd.EventSetTotal(1))
	tm.Type("q")

	tm.WaitFinished(t, teatest.WithFinalTimeout(10*time.Second))
}
