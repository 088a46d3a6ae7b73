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
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/diff"
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/rule"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/textenc"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound marks targets that could not be opened for reading
	ErrNotFound = errors.New("file not found")

	// ErrWrite marks targets whose new content could not be persisted
	ErrWrite = errors.New("write failed")
)

// 🔧 Options contains configuration for the runner
type Options struct {
	// FS loads and persists targets. Defaults to the local disk.
	FS FileSystem

	// Encoding is the declared text encoding of every target. It is required.
	Encoding string

	// DryRun rewrites in memory and never persists
	DryRun bool

	// Diff records a unified diff for every changed file
	Diff bool

	// Concurrency bounds how many path groups are processed at once. Values below 2
	// process targets strictly one at a time.
	Concurrency int
}

type compiledTarget struct {
	path  string
	rules []rewrite.Compiled
}

// 🏃 Runner executes a batch of targets
type Runner struct {
	targets     []compiledTarget
	fs          FileSystem
	codec       textenc.Codec
	rewriter    *rewrite.Rewriter
	dryRun      bool
	diff        bool
	concurrency int
}

// 🏗️ New validates and compiles every target. Any error is a configuration error and
// no file has been touched when it is returned.
func New(targets []rule.Target, opts Options) (*Runner, error) {
	codec, err := textenc.Lookup(opts.Encoding)
	if err != nil {
		return nil, &rewrite.ConfigError{Err: err}
	}

	fs := opts.FS
	if fs == nil {
		fs = NewOSFileSystem("")
	}

	compiled := make([]compiledTarget, 0, len(targets))
	for _, t := range targets {
		if strings.TrimSpace(t.Path) == "" {
			return nil, &rewrite.ConfigError{Err: errors.Errorf("target path is required: %w", rule.ErrInvalidRule)}
		}
		rules, err := rewrite.CompileRules(t.Rules)
		if err != nil {
			var cerr *rewrite.ConfigError
			if errors.As(err, &cerr) {
				return nil, &rewrite.ConfigError{Target: t.Path, Rule: cerr.Rule, Err: cerr.Err}
			}
			return nil, &rewrite.ConfigError{Target: t.Path, Err: err}
		}
		compiled = append(compiled, compiledTarget{path: t.Path, rules: rules})
	}

	return &Runner{
		targets:     compiled,
		fs:          fs,
		codec:       codec,
		rewriter:    rewrite.NewRewriter(),
		dryRun:      opts.DryRun,
		diff:        opts.Diff,
		concurrency: opts.Concurrency,
	}, nil
}

// Run processes every target and returns the report in input order. Per-file problems
// are recorded in the report; the error is only set when ctx is cancelled.
func (r *Runner) Run(ctx context.Context) (*status.BatchReport, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().
		Int("targets", len(r.targets)).
		Bool("dry_run", r.dryRun).
		Int("concurrency", r.concurrency).
		Msg("starting batch")

	outcomes := make([]status.FileOutcome, len(r.targets))

	var err error
	if r.concurrency > 1 {
		err = r.runConcurrent(ctx, outcomes)
	} else {
		err = r.runSequential(ctx, outcomes)
	}
	if err != nil {
		return nil, err
	}

	report := status.NewBatchReport(outcomes, r.dryRun)
	logger.Debug().
		Int("rewritten", report.Totals.Rewritten).
		Int("unchanged", report.Totals.Unchanged).
		Int("not_found", report.Totals.NotFound).
		Int("mismatched", report.Totals.Mismatched).
		Msg("batch complete")

	return report, nil
}

// 🔄 runSequential processes targets one at a time
func (r *Runner) runSequential(ctx context.Context, outcomes []status.FileOutcome) error {
	for i, t := range r.targets {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("batch cancelled: %w", err)
		}
		outcomes[i] = r.processTarget(ctx, t)
	}
	return nil
}

// ⚡ runConcurrent processes path groups in parallel. Targets sharing a path stay in one
// group and keep their input order.
func (r *Runner) runConcurrent(ctx context.Context, outcomes []status.FileOutcome) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, group := range groupByPath(r.targets) {
		g.Go(func() error {
			for _, i := range group {
				if err := gctx.Err(); err != nil {
					return errors.Errorf("batch cancelled: %w", err)
				}
				outcomes[i] = r.processTarget(gctx, r.targets[i])
			}
			return nil
		})
	}

	return g.Wait()
}

// groupByPath returns target indices grouped by cleaned path, groups ordered by first use
func groupByPath(targets []compiledTarget) [][]int {
	index := map[string]int{}
	var groups [][]int
	for i, t := range targets {
		key := filepath.Clean(t.path)
		g, ok := index[key]
		if !ok {
			g = len(groups)
			index[key] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	return groups
}

// 📄 processTarget loads, rewrites and persists one target
func (r *Runner) processTarget(ctx context.Context, t compiledTarget) status.FileOutcome {
	logger := zerolog.Ctx(ctx).With().Str("path", t.path).Logger()

	outcome := status.FileOutcome{
		Path:   t.path,
		Status: status.StatusPending,
	}

	raw, err := r.fs.ReadFile(ctx, t.path)
	if err != nil {
		logger.Debug().Err(err).Msg("skipping target")
		outcome.Status = status.StatusNotFound
		outcome.Error = errors.Errorf("%w: %v", ErrNotFound, err).Error()
		return outcome
	}

	buf, err := r.codec.Decode(raw)
	if err != nil {
		logger.Debug().Err(err).Msg("skipping undecodable target")
		outcome.Status = status.StatusUndecodable
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Loaded = true

	result := r.rewriter.Rewrite(logger.WithContext(ctx), buf, t.rules)
	outcome.Rules = result.Outcomes
	outcome.Unchanged = result.Unchanged()

	if outcome.Unchanged {
		outcome.Status = status.StatusUnchanged
		return outcome
	}

	if r.diff {
		outcome.Diff = diff.Unified(t.path, result.Original, result.Content, diff.DefaultContext)
	}

	if r.dryRun {
		outcome.Status = status.StatusPreview
		return outcome
	}

	if err := r.persist(ctx, t.path, result.Content); err != nil {
		logger.Warn().Err(err).Msg("write failed, original left intact")
		outcome.Status = status.StatusWriteFailed
		outcome.Error = err.Error()
		return outcome
	}

	logger.Debug().Int("applied", result.Applied()).Msg("target rewritten")
	outcome.Status = status.StatusRewritten
	outcome.Written = true
	return outcome
}

// persist encodes content with the declared encoding and writes it atomically
func (r *Runner) persist(ctx context.Context, path, content string) error {
	data, err := r.codec.Encode(content)
	if err != nil {
		return errors.Errorf("%w: %v", ErrWrite, err)
	}
	if err := r.fs.WriteFileAtomic(ctx, path, data); err != nil {
		return errors.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
