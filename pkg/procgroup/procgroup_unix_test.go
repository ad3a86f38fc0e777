//go:build unix

package procgroup_test

import (
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shellkit/pkg/procgroup"
)

func TestSet(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("sleep", "10")
	procgroup.Set(cmd)

	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid)
}

func TestKill(t *testing.T) {
	t.Parallel()

	t.Run("nil command", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, procgroup.Kill(nil, syscall.SIGTERM))
	})

	t.Run("unstarted command", func(t *testing.T) {
		t.Parallel()

		cmd := exec.Command("sleep", "10")
		require.NoError(t, procgroup.Kill(cmd, syscall.SIGTERM))
	})

	t.Run("terminates a running group", func(t *testing.T) {
		t.Parallel()

		cmd := exec.Command("sleep", "30")
		procgroup.Set(cmd)
		require.NoError(t, cmd.Start())

		require.NoError(t, procgroup.Kill(cmd, syscall.SIGKILL))

		err := cmd.Wait()
		require.Error(t, err)
	})
}

func TestKillGroup(t *testing.T) {
	t.Parallel()

	t.Run("non-positive pid", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, procgroup.KillGroup(0, time.Second, time.Second))
		require.NoError(t, procgroup.KillGroup(-1, time.Second, time.Second))
	})

	t.Run("terminates a running process", func(t *testing.T) {
		t.Parallel()

		cmd := exec.Command("sleep", "30")
		procgroup.Set(cmd)
		require.NoError(t, cmd.Start())

		err := procgroup.KillGroup(cmd.Process.Pid, 2*time.Second, 5*time.Second)
		require.NoError(t, err)
	})
}
