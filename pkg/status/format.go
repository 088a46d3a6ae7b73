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

package status

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent = 4  // spaces to indent file entries
	ruleIndent = 6  // spaces to indent rule lines
	nameWidth  = 35 // base width for file paths
)

// 📝 Reporter renders a BatchReport as text. It only reads the report.
//
// Every exactly_one rule that did not match gets a warning line. A rule skipped by its
// guard is warned about too, but it is not a policy violation: it does not count
// toward Totals.Mismatched and does not fail the batch.
type Reporter struct {
	w       io.Writer
	color   bool
	verbose bool
}

// ReporterOption configures a Reporter
type ReporterOption func(*Reporter)

// WithColor enables or disables ANSI colors
func WithColor(enabled bool) ReporterOption {
	return func(r *Reporter) { r.color = enabled }
}

// WithVerbose adds one line per rule under each loaded file
func WithVerbose(enabled bool) ReporterOption {
	return func(r *Reporter) { r.verbose = enabled }
}

// NewReporter creates a Reporter writing to w
func NewReporter(w io.Writer, opts ...ReporterOption) *Reporter {
	r := &Reporter{w: w, color: true}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Reporter) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if !r.color {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Render writes the full summary: one line per file, warnings, then totals
func (r *Reporter) Render(report *BatchReport) error {
	for _, f := range report.Files {
		if _, err := fmt.Fprintln(r.w, r.FormatFile(f)); err != nil {
			return err
		}
		for _, line := range r.detailLines(f) {
			if _, err := fmt.Fprintln(r.w, line); err != nil {
				return err
			}
		}
		if f.Diff != "" {
			if _, err := fmt.Fprint(r.w, f.Diff); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(r.w, r.FormatTotals(report))
	return err
}

// Describe returns the plain status phrase for a file
func Describe(f FileOutcome) string {
	switch f.Status {
	case StatusNotFound:
		return "skipped (not found)"
	case StatusUndecodable:
		return "skipped (decode error)"
	case StatusUnchanged:
		return "unchanged (no rule matched)"
	case StatusRewritten:
		return fmt.Sprintf("rewritten (%d of %d rules applied)", f.Applied(), len(f.Rules))
	case StatusPreview:
		return fmt.Sprintf("would rewrite (%d of %d rules applied)", f.Applied(), len(f.Rules))
	case StatusWriteFailed:
		return "failed (write error)"
	}
	return "pending"
}

// FormatFile formats the status line of one file
func (r *Reporter) FormatFile(f FileOutcome) string {
	var symbol string
	var attr color.Attribute
	switch f.Status {
	case StatusRewritten, StatusPreview:
		symbol, attr = "⟳", color.FgBlue
	case StatusUnchanged:
		symbol, attr = "-", color.FgHiBlack
	case StatusNotFound, StatusUndecodable:
		symbol, attr = "⏭", color.FgYellow
	case StatusWriteFailed:
		symbol, attr = "✗", color.FgRed
	default:
		symbol, attr = "?", color.FgHiBlack
	}

	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", fileIndent),
		r.paint(symbol, attr),
		fmt.Sprintf("%-*s", nameWidth, f.Path),
		Describe(f))
}

// detailLines returns the error, warning and (when verbose) per-rule lines of one file
func (r *Reporter) detailLines(f FileOutcome) []string {
	indent := strings.Repeat(" ", ruleIndent)
	var lines []string

	if f.Error != "" {
		lines = append(lines, indent+r.paint("error: "+f.Error, color.FgRed))
	}

	for _, o := range f.Mismatches() {
		lines = append(lines, fmt.Sprintf("%s%s rule %q %s, found %d",
			indent, r.paint("⚠ warning:", color.FgYellow), o.Rule, describeMismatch(o), o.Occurrences))
	}

	for _, o := range f.GuardSkips() {
		lines = append(lines, fmt.Sprintf("%s%s rule %q expected exactly one occurrence, skipped (guard not met)",
			indent, r.paint("⚠ warning:", color.FgYellow), o.Rule))
	}

	if !r.verbose {
		return lines
	}

	for _, o := range f.Rules {
		switch {
		case o.Skipped:
			lines = append(lines, fmt.Sprintf("%s%s %s (guard not met)", indent, r.paint("~", color.FgHiBlack), o.Rule))
		case o.Applied:
			lines = append(lines, fmt.Sprintf("%s%s %s (%d replaced)", indent, r.paint("+", color.FgGreen), o.Rule, o.Replaced))
		default:
			lines = append(lines, fmt.Sprintf("%s%s %s (%d found)", indent, r.paint("-", color.FgHiBlack), o.Rule, o.Occurrences))
		}
	}
	return lines
}

// FormatTotals formats the closing summary line
func (r *Reporter) FormatTotals(report *BatchReport) string {
	t := report.Totals

	changed := fmt.Sprintf("%d rewritten", t.Rewritten)
	if report.DryRun {
		changed = fmt.Sprintf("%d would be rewritten", t.Preview)
	}

	line := fmt.Sprintf("%d files: %s, %d unchanged, %d skipped (not found), %d skipped (decode error), %d failed; %d rule mismatches",
		t.Files, changed, t.Unchanged, t.NotFound, t.Undecodable, t.WriteFailed, t.Mismatched)

	if report.HasFailures() {
		return r.paint(line, color.FgYellow)
	}
	return r.paint(line, color.FgGreen)
}
