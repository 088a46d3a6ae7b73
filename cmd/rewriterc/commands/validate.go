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
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/textenc"
	"gitlab.com/tozd/go/errors"
)

// ✅ NewValidateCmd creates the validate command
func NewValidateCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load the rule set and compile every rule without touching targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			userLogger := log.FromContext(ctx)

			cfg, _, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			if cfg.Encoding != "" {
				if _, err := textenc.Lookup(cfg.Encoding); err != nil {
					return &rewrite.ConfigError{Err: err}
				}
			}

			rules, err := cfg.RuleSet()
			if err != nil {
				return errors.Errorf("converting rules: %w", err)
			}
			if _, err := rewrite.CompileRules(rules); err != nil {
				return err
			}

			userLogger.Success("config is valid: %d rules, %d targets", len(cfg.Rules), len(cfg.Targets))

			return nil
		},
	}

	return cmd
}
