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
	"context"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
)

// newRootCmd builds the command tree with its own flag storage
func newRootCmd() *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Apply ordered, pattern-based rewrite rules to source files",
		Long: `rewriterc applies named literal or regex rewrite rules to a set of files.
Each rule declares how many occurrences it expects, every file is written atomically,
and a report shows what changed, what was skipped and which rules did not match.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(setupLogging(cmd, o))
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewRunCmd(o),
		commands.NewCheckCmd(o),
		commands.NewValidateCmd(o),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".rewriterc.hcl", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&o.Dir, "dir", "", "base directory for target paths (default: the config file's directory)")
	cmd.PersistentFlags().BoolVar(&o.NoColor, "no-color", false, "disable colored output")
}

// setupLogging configures zerolog and the user logger based on flags
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) context.Context {
	if o.NoColor {
		color.NoColor = true
		pterm.DisableColor()
	}

	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: o.NoColor}).
		Level(level).
		With().Timestamp().Logger()

	ctx := logger.WithContext(cmd.Context())
	return log.NewContext(ctx, log.New(ctx, cmd.ErrOrStderr()))
}
