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

package config

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// isGlob reports whether p has glob metacharacters
func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// 📦 ExpandTargets expands every target definition into concrete file targets.
// Literal paths are kept as written. Globs are resolved against baseDir and
// returned sorted. A path whose rules are all filtered out by "only" is dropped.
func (cfg *Config) ExpandTargets(ctx context.Context, baseDir string) ([]rule.Target, error) {
	logger := zerolog.Ctx(ctx)

	defs := make(map[string]RuleDef, len(cfg.Rules))
	for _, d := range cfg.Rules {
		defs[d.Name] = d
	}

	var targets []rule.Target
	for i, td := range cfg.Targets {
		paths, err := expandPaths(ctx, baseDir, td.Paths)
		if err != nil {
			return nil, errors.Errorf("target %d: %w", i, err)
		}

		for _, p := range paths {
			rules, err := rulesFor(p, td.Rules, defs)
			if err != nil {
				return nil, errors.Errorf("target %d: %w", i, err)
			}
			if len(rules) == 0 {
				logger.Debug().Str("path", p).Msg("no rules apply to path, skipping")
				continue
			}
			targets = append(targets, rule.Target{Path: p, Rules: rules})
		}
	}

	logger.Debug().Int("targets", len(targets)).Msg("expanded targets")

	return targets, nil
}

// expandPaths resolves globs and removes duplicates, keeping first-seen order
func expandPaths(ctx context.Context, baseDir string, patterns []string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, pattern := range patterns {
		if !isGlob(pattern) {
			add(pattern)
			continue
		}

		var matches []string
		var err error
		if filepath.IsAbs(pattern) {
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		} else {
			clean := path.Clean(filepath.ToSlash(pattern))
			matches, err = doublestar.Glob(os.DirFS(baseDir), clean, doublestar.WithFilesOnly())
			for j := range matches {
				matches[j] = filepath.FromSlash(matches[j])
			}
		}
		if err != nil {
			return nil, errors.Errorf("expanding glob %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			logger.Warn().Str("pattern", pattern).Msg("glob matched no files")
			continue
		}

		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return out, nil
}

// rulesFor builds the ordered rule list for one path, honoring "only" filters
func rulesFor(p string, names []string, defs map[string]RuleDef) ([]rule.Rule, error) {
	slashed := path.Clean(filepath.ToSlash(p))

	var rules []rule.Rule
	for _, name := range names {
		d, ok := defs[name]
		if !ok {
			return nil, errors.Errorf("unknown rule %q: %w", name, ErrInvalidConfig)
		}
		if !matchesOnly(slashed, d.Only) {
			continue
		}
		r, err := d.toRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func matchesOnly(p string, only []string) bool {
	if len(only) == 0 {
		return true
	}
	for _, g := range only {
		if ok, _ := doublestar.Match(g, p); ok {
			return true
		}
	}
	return false
}
