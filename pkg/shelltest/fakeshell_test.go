package shelltest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shellkit/pkg/shell"
	"github.com/macropower/shellkit/pkg/shelltest"
)

func TestFakeShell_ExactMatch(t *testing.T) {
	t.Parallel()

	fake := shelltest.NewFakeShell()
	fake.Register("git status", shelltest.Response{Stdout: "clean"})

	cmd, err := shell.New([]string{"git", "status"})
	require.NoError(t, err)

	res, err := fake.Run(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "clean", res.Stdout)
	assert.True(t, fake.Called("git"))
	assert.Equal(t, 1, fake.CallCount("git status"))
}

func TestFakeShell_PrefixMatch(t *testing.T) {
	t.Parallel()

	fake := shelltest.NewFakeShell()
	fake.Register("git", shelltest.Response{Stdout: "generic"})
	fake.Register("git clone", shelltest.Response{Stdout: "cloned"})

	cmd, err := shell.New([]string{"git", "clone", "https://example.com/repo.git"})
	require.NoError(t, err)

	// Longest registered prefix wins.
	res, err := fake.Run(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "cloned", res.Stdout)
}

func TestFakeShell_Unmatched(t *testing.T) {
	t.Parallel()

	fake := shelltest.NewFakeShell()

	cmd, err := shell.New([]string{"nope"})
	require.NoError(t, err)

	_, err = fake.Run(t.Context(), cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, shelltest.ErrTestRunner)

	fake.DefaultResponse = &shelltest.Response{Stdout: "fallback"}

	res, err := fake.Run(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Stdout)
}

func TestFakeShell_RecordsCalls(t *testing.T) {
	t.Parallel()

	fake := shelltest.NewFakeShell()
	fake.DefaultResponse = &shelltest.Response{}

	cmd, err := shell.New([]string{"deploy", "--env", "prod"},
		shell.WithDir("/srv/app"),
		shell.WithEnv(map[string]string{"TOKEN": "hunter2"}),
	)
	require.NoError(t, err)

	_, err = fake.Run(t.Context(), cmd)
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"deploy", "--env", "prod"}, calls[0].Args)
	assert.Equal(t, "/srv/app", calls[0].Dir)
	assert.Equal(t, map[string]string{"TOKEN": "hunter2"}, calls[0].Env)
}

func TestFakeShell_IsExecutor(t *testing.T) {
	t.Parallel()

	var _ shell.Executor = shelltest.NewFakeShell()
}
