// Copyright 2017-2018 The Argo Authors
// Modifications Copyright 2024-2025 Jacob Colvin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shellkit/pkg/pathutil"
)

func TestGetRandomizedPath_SameKeys(t *testing.T) {
	t.Parallel()

	paths := pathutil.NewRandomizedTempPaths(t.TempDir())
	res1, err := paths.GetPath("build")
	require.NoError(t, err)
	res2, err := paths.GetPath("build")
	require.NoError(t, err)
	assert.Equal(t, res1, res2)
}

func TestGetRandomizedPath_DifferentKeys(t *testing.T) {
	t.Parallel()

	paths := pathutil.NewRandomizedTempPaths(t.TempDir())
	res1, err := paths.GetPath("build")
	require.NoError(t, err)
	res2, err := paths.GetPath("test")
	require.NoError(t, err)
	assert.NotEqual(t, res1, res2)
}

func TestGetRandomizedPath_SameKeysDifferentInstances(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	paths1 := pathutil.NewRandomizedTempPaths(root)
	res1, err := paths1.GetPath("build")
	require.NoError(t, err)

	paths2 := pathutil.NewRandomizedTempPaths(root)
	res2, err := paths2.GetPath("build")
	require.NoError(t, err)

	assert.NotEqual(t, res1, res2)
}

func TestGetPathIfExists(t *testing.T) {
	t.Parallel()

	paths := pathutil.NewRandomizedTempPaths(t.TempDir())

	assert.Empty(t, paths.GetPathIfExists("build"))

	res, err := paths.GetPath("build")
	require.NoError(t, err)
	assert.Equal(t, res, paths.GetPathIfExists("build"))
}

func TestEnsurePathAndRemoveAll(t *testing.T) {
	t.Parallel()

	paths := pathutil.NewRandomizedTempPaths(t.TempDir())

	res, err := paths.EnsurePath("build")
	require.NoError(t, err)
	require.DirExists(t, res)

	require.NoError(t, paths.RemoveAll())
	require.NoDirExists(t, res)
	assert.Empty(t, paths.GetPathIfExists("build"))
}
