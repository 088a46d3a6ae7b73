// Copyright 2025 walteh LLC
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

package operation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFileSystem_WriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o750))

	fs := NewOSFileSystem(dir)
	require.NoError(t, fs.WriteFileAtomic(context.Background(), "script.sh", []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm(), "mode is preserved")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestOSFileSystem_WriteFileAtomic_MissingTarget(t *testing.T) {
	dir := t.TempDir()
	fs := NewOSFileSystem(dir)

	err := fs.WriteFileAtomic(context.Background(), "gone.txt", []byte("x"))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "a failed write creates nothing")
}

func TestOSFileSystem_WriteFileAtomic_Symlink(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "dest", "Navbar.jsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))

	link := filepath.Join(dir, "Navbar.jsx")
	if err := os.Symlink(dest, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	fs := NewOSFileSystem(dir)
	require.NoError(t, fs.WriteFileAtomic(context.Background(), "Navbar.jsx", []byte("new")))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "the link itself should survive")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data), "the link destination should be rewritten")

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left next to the destination")
}

func TestOSFileSystem_RenameFailureLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	// a directory standing in for the target makes the final rename fail
	target := filepath.Join(dir, "target")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o755))

	fs := NewOSFileSystem(dir)
	err := fs.WriteFileAtomic(context.Background(), "target", []byte("x"))
	require.Error(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "original is untouched")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is removed")
}

func TestOSFileSystem_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	data, err := NewOSFileSystem(dir).ReadFile(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	data, err = NewOSFileSystem("").ReadFile(context.Background(), filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))
}

func TestGroupByPath(t *testing.T) {
	groups := groupByPath([]compiledTarget{
		{path: "a.js"},
		{path: "b.js"},
		{path: "./a.js"},
		{path: "c.js"},
	})
	assert.Equal(t, [][]int{{0, 2}, {1}, {3}}, groups)
}
