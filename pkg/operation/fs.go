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

	"gitlab.com/tozd/go/errors"
)

// 💾 FileSystem loads and persists target content
type FileSystem interface {
	// ReadFile returns the full content of path
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFileAtomic replaces the content of path. On error the original content
	// must be left untouched.
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
}

// OSFileSystem is a FileSystem on the local disk. Relative paths resolve against baseDir.
type OSFileSystem struct {
	baseDir string
}

// NewOSFileSystem creates an OSFileSystem rooted at baseDir. An empty baseDir uses
// the working directory.
func NewOSFileSystem(baseDir string) *OSFileSystem {
	if baseDir != "" {
		baseDir = filepath.Clean(baseDir)
	}
	return &OSFileSystem{baseDir: baseDir}
}

// 🔒 getAbsPath returns the path used on disk for a target path
func (f *OSFileSystem) getAbsPath(path string) string {
	if f.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.baseDir, path)
}

// ReadFile implements FileSystem.ReadFile
func (f *OSFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(f.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

// WriteFileAtomic implements FileSystem.WriteFileAtomic. Content goes to a temp file in
// the target's directory and is renamed over the target, keeping the original mode.
// A symlinked target is resolved first so the link survives and its destination is
// rewritten.
func (f *OSFileSystem) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath, err := filepath.EvalSymlinks(f.getAbsPath(path))
	if err != nil {
		return errors.Errorf("resolving target: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return errors.Errorf("stat target: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".rewriterc-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, absPath); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
