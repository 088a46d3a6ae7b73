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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

const testConfig = `
encoding = "utf-8"

rule "import" {
  pattern     = "import { useAuth0 } from '@auth0/auth0-react';"
  replacement = "import { useAuth } from '../contexts/useAuth';"
}

rule "hook" {
  kind        = "regex"
  pattern     = "const \\{ (\\w+) \\} = useAuth0\\(\\);"
  replacement = "const { \\1 } = useAuth();"
  policy      = "zero_or_more"
}

rule "logout" {
  pattern     = "logout({ returnTo: window.location.origin })"
  replacement = "logout()"
  policy      = "zero_or_more"
}

target {
  paths = ["src/components/*.jsx", "src/components/Missing.jsx"]
  rules = ["import", "hook", "logout"]
}
`

const navbar = `import { useAuth0 } from '@auth0/auth0-react';

const Navbar = () => {
  const { logout } = useAuth0();
  return <button onClick={() => logout({ returnTo: window.location.origin })}>Log out</button>;
};
`

const navbarMigrated = `import { useAuth } from '../contexts/useAuth';

const Navbar = () => {
  const { logout } = useAuth();
  return <button onClick={() => logout()}>Log out</button>;
};
`

type cliEnv struct {
	dir    string
	config string
}

func newCLIEnv(t *testing.T, files map[string]string) *cliEnv {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return &cliEnv{dir: dir, config: filepath.Join(dir, ".rewriterc.hcl")}
}

func (e *cliEnv) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--no-color"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	env := newCLIEnv(t, map[string]string{
		".rewriterc.hcl":            testConfig,
		"src/components/Navbar.jsx": navbar,
	})

	stdout, _, err := execute(t, "run", "-c", env.config)
	require.NoError(t, err, "run should succeed")

	assert.Equal(t, navbarMigrated, env.read(t, "src/components/Navbar.jsx"), "file should be migrated")
	assert.Contains(t, stdout, "src/components/Navbar.jsx")
	assert.Contains(t, stdout, "rewritten (3 of 3 rules applied)")
	assert.Contains(t, stdout, "skipped (not found)", "missing literal path should be reported")
	assert.Contains(t, stdout, "2 files: 1 rewritten, 0 unchanged, 1 skipped (not found)")

	// a second run finds nothing left to do
	stdout, _, err = execute(t, "run", "-c", env.config, "--verbose")
	require.Error(t, err, "import rule requires exactly one occurrence")
	assert.True(t, errors.Is(err, commands.ErrBatchFailed))
	assert.Equal(t, 1, commands.ExitCode(err))
	assert.Contains(t, stdout, `rule "import" expected exactly one occurrence, found 0`)
	assert.Contains(t, stdout, "unchanged (no rule matched)")
	assert.Equal(t, navbarMigrated, env.read(t, "src/components/Navbar.jsx"), "second run should not change the file")
}

func TestRunCommand_Strict(t *testing.T) {
	env := newCLIEnv(t, map[string]string{
		".rewriterc.hcl":            testConfig,
		"src/components/Navbar.jsx": navbar,
	})

	_, _, err := execute(t, "run", "-c", env.config, "--strict")
	require.Error(t, err, "missing file should fail in strict mode")
	assert.Equal(t, 1, commands.ExitCode(err))
}

func TestCheckCommand(t *testing.T) {
	env := newCLIEnv(t, map[string]string{
		".rewriterc.hcl":            testConfig,
		"src/components/Navbar.jsx": navbar,
	})

	stdout, _, err := execute(t, "check", "-c", env.config, "--diff")
	require.NoError(t, err)

	assert.Equal(t, navbar, env.read(t, "src/components/Navbar.jsx"), "check must not write")
	assert.Contains(t, stdout, "would rewrite (3 of 3 rules applied)")
	assert.Contains(t, stdout, "-import { useAuth0 } from '@auth0/auth0-react';")
	assert.Contains(t, stdout, "+import { useAuth } from '../contexts/useAuth';")
	assert.Contains(t, stdout, "1 would be rewritten")
}

func TestCheckCommand_JSON(t *testing.T) {
	env := newCLIEnv(t, map[string]string{
		".rewriterc.hcl":            testConfig,
		"src/components/Navbar.jsx": navbar,
	})

	stdout, _, err := execute(t, "check", "-c", env.config, "--format", "json")
	require.NoError(t, err)

	var report struct {
		DryRun bool          `json:"dry_run"`
		Totals status.Totals `json:"totals"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report), "stdout should be a JSON report")
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Totals.Files)
	assert.Equal(t, 1, report.Totals.Preview)
	assert.Equal(t, 1, report.Totals.NotFound)
}

func TestRunCommand_ConfigErrors(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		args        []string
		errContains string
	}{
		{
			name: "unknown_group",
			config: `
encoding = "utf-8"
rule "bad" {
  kind        = "regex"
  pattern     = "a(b)"
  replacement = "\\2"
}
target {
  paths = ["src/components/Navbar.jsx"]
  rules = ["bad"]
}
`,
			errContains: "configuration error",
		},
		{
			name: "missing_encoding",
			config: `
rule "a" {
  pattern = "x"
}
target {
  paths = ["src/components/Navbar.jsx"]
  rules = ["a"]
}
`,
			errContains: "configuration error",
		},
		{
			name:        "unknown_format",
			config:      testConfig,
			args:        []string{"--format", "xml"},
			errContains: "unknown report format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t, map[string]string{
				".rewriterc.hcl":            tt.config,
				"src/components/Navbar.jsx": navbar,
			})

			_, _, err := execute(t, append([]string{"run", "-c", env.config}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.Equal(t, 2, commands.ExitCode(err))
			assert.Equal(t, navbar, env.read(t, "src/components/Navbar.jsx"), "no file may be touched")
		})
	}
}

func TestRunCommand_EncodingOverride(t *testing.T) {
	cfg := `
rule "a" {
  pattern     = "caf"
  replacement = "CAF"
}
target {
  paths = ["menu.txt"]
  rules = ["a"]
}
`
	env := newCLIEnv(t, map[string]string{
		".rewriterc.hcl": cfg,
		"menu.txt":       "caf\xe9\n",
	})

	_, _, err := execute(t, "run", "-c", env.config, "--encoding", "latin1")
	require.NoError(t, err)
	assert.Equal(t, "CAF\xe9\n", env.read(t, "menu.txt"), "latin1 bytes should round trip")
}

func TestValidateCommand(t *testing.T) {
	env := newCLIEnv(t, map[string]string{".rewriterc.hcl": testConfig})

	_, stderr, err := execute(t, "validate", "-c", env.config)
	require.NoError(t, err)
	assert.Contains(t, stderr, "config is valid: 3 rules, 1 targets")

	bad := newCLIEnv(t, map[string]string{".rewriterc.hcl": `
rule "a" {
  kind    = "regex"
  pattern = "("
}
target {
  paths = ["x"]
  rules = ["a"]
}
`})
	_, _, err = execute(t, "validate", "-c", bad.config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "rewriterc version info")

	stdout, _, err = execute(t, "version", "--json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.NotEmpty(t, info.GoVersion)
}
