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

package commands

import (
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/operation"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🎚️ batchFlags are the flags shared by run and check
type batchFlags struct {
	format      string
	verbose     bool
	concurrency int
	encoding    string
	strict      bool
	diff        bool
}

func addBatchFlags(cmd *cobra.Command, f *batchFlags) {
	cmd.Flags().StringVar(&f.format, "format", "text", "report format: text, json or yaml")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "list every rule outcome per file")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "number of files processed in parallel (overrides config)")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "text encoding of every target (overrides config)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "also fail when a target is skipped")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "include a unified diff of every changed file")
}

// 🏃 NewRunCmd creates the run command
func NewRunCmd(o *opts.RootOpts) *cobra.Command {
	f := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply rewrite rules to every target",
		Long: `Run applies each target's rules in order and writes the changed files.
It will:
1. Load and validate the rule set
2. Compile every rule before touching any file
3. Rewrite each target and persist it atomically
4. Print a report of what happened`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, o, f, false)
		},
	}
	addBatchFlags(cmd, f)
	return cmd
}

// 🔍 NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	f := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report what run would change without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeBatch(cmd, o, f, true)
		},
	}
	addBatchFlags(cmd, f)
	return cmd
}

func executeBatch(cmd *cobra.Command, o *opts.RootOpts, f *batchFlags, dryRun bool) error {
	ctx := zerolog.Ctx(cmd.Context()).With().Str("command", cmd.Name()).Logger().WithContext(cmd.Context())
	userLogger := log.FromContext(ctx)

	switch f.format {
	case "text", "json", "yaml":
	default:
		return errors.Errorf("unknown report format %q", f.format)
	}

	cfg, baseDir, err := o.LoadConfig(ctx)
	if err != nil {
		return err
	}

	targets, err := cfg.ExpandTargets(ctx, baseDir)
	if err != nil {
		return errors.Errorf("expanding targets: %w", err)
	}

	encoding := cfg.Encoding
	if f.encoding != "" {
		encoding = f.encoding
	}
	concurrency := cfg.Concurrency
	if cmd.Flags().Changed("concurrency") {
		concurrency = f.concurrency
	}

	runner, err := operation.New(targets, operation.Options{
		FS:          operation.NewOSFileSystem(baseDir),
		Encoding:    encoding,
		DryRun:      dryRun,
		Diff:        f.diff,
		Concurrency: concurrency,
	})
	if err != nil {
		return errors.Errorf("preparing batch: %w", err)
	}

	if f.format == "text" {
		userLogger.Header("processing %d targets from %s", len(targets), o.ConfigFile)
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch f.format {
	case "json":
		err = status.WriteJSON(out, report)
	case "yaml":
		err = status.WriteYAML(out, report)
	default:
		reporter := status.NewReporter(out,
			status.WithColor(!o.NoColor && !color.NoColor),
			status.WithVerbose(f.verbose),
		)
		err = reporter.Render(report)
	}
	if err != nil {
		return errors.Errorf("writing report: %w", err)
	}

	userLogger.LogBatch(report)

	if report.HasFailures() || (f.strict && report.HasSkips()) {
		return ErrBatchFailed
	}
	return nil
}
