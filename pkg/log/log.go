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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/status"
)

// 📢 UserLogger provides user-friendly feedback on the console and mirrors every
// line to the zerolog logger for debugging
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
	mu  sync.Mutex
}

// 🏭 New creates a user logger writing to out
func New(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the user logger from context, falling back to stdout
func FromContext(ctx context.Context) *UserLogger {
	logger, ok := ctx.Value(contextKey{}).(*UserLogger)
	if !ok {
		return New(ctx, os.Stdout)
	}
	return logger
}

// 🎯 NewContext adds the user logger to context
func NewContext(ctx context.Context, l *UserLogger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func (u *UserLogger) print(p pterm.PrefixPrinter, prefix string, msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	p.WithPrefix(pterm.Prefix{Text: prefix, Style: p.Prefix.Style}).WithWriter(u.out).Println(msg)
}

// 📦 Header announces the start of a batch
func (u *UserLogger) Header(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.print(pterm.Info, "🔄", msg)
	u.log.Info().Msg(msg)
}

// ✅ Success reports a completed step
func (u *UserLogger) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.print(pterm.Success, "✅", msg)
	u.log.Info().Msg(msg)
}

// ⚠️ Warning reports a problem that did not stop the batch
func (u *UserLogger) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.print(pterm.Warning, "⚠️", msg)
	u.log.Warn().Msg(msg)
}

// ❌ Error reports a failure with its cause
func (u *UserLogger) Error(description string, err error) {
	u.print(pterm.Error, "❌", description)
	if err != nil {
		u.print(pterm.Error, "  ", err.Error())
	}
	u.log.Error().Err(err).Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		u.Success("%s", description)
	case err != nil:
		u.Error(description, err)
	default:
		u.Warning("%s", description)
	}
}

// 📊 LogBatch summarizes a finished batch in one line
func (u *UserLogger) LogBatch(report *status.BatchReport) {
	t := report.Totals
	verb := "rewritten"
	changed := t.Rewritten
	if report.DryRun {
		verb = "would be rewritten"
		changed = t.Preview
	}

	switch {
	case report.HasFailures():
		u.Error(fmt.Sprintf("batch finished with problems: %d rule mismatches, %d failed writes", t.Mismatched, t.WriteFailed), nil)
	case report.HasSkips():
		u.Warning("%d of %d files %s, %d skipped", changed, t.Files, verb, t.NotFound+t.Undecodable)
	default:
		u.Success("%d of %d files %s", changed, t.Files, verb)
	}
}
