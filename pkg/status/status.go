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
	"github.com/walteh/rewriterc/pkg/rewrite"
	"github.com/walteh/rewriterc/pkg/rule"
)

// 📊 FileStatus is the terminal state of one target
type FileStatus int

const (
	StatusPending     FileStatus = iota
	StatusNotFound               // file absent or unreadable
	StatusUndecodable            // content invalid under the declared encoding
	StatusUnchanged              // rules left the buffer identical
	StatusRewritten              // new content persisted
	StatusPreview                // content changed, dry run kept it in memory
	StatusWriteFailed            // persist failed, original left intact
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNotFound:
		return "not_found"
	case StatusUndecodable:
		return "undecodable"
	case StatusUnchanged:
		return "unchanged"
	case StatusRewritten:
		return "rewritten"
	case StatusPreview:
		return "preview"
	case StatusWriteFailed:
		return "write_failed"
	default:
		return "pending"
	}
}

// MarshalText encodes the status by name
func (s FileStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// 📄 FileOutcome is what happened to one target
type FileOutcome struct {
	Path      string            `json:"path" yaml:"path"`
	Status    FileStatus        `json:"status" yaml:"status"`
	Loaded    bool              `json:"loaded" yaml:"loaded"`
	Written   bool              `json:"written" yaml:"written"`
	Unchanged bool              `json:"unchanged" yaml:"unchanged"`
	Error     string            `json:"error,omitempty" yaml:"error,omitempty"`
	Rules     []rewrite.Outcome `json:"rules" yaml:"rules"`

	// Diff is a unified diff of the change, filled only when previews were requested
	Diff string `json:"diff,omitempty" yaml:"diff,omitempty"`
}

// Applied counts the rules that changed this file
func (f FileOutcome) Applied() int {
	n := 0
	for _, o := range f.Rules {
		if o.Applied {
			n++
		}
	}
	return n
}

// Mismatches returns the outcomes whose occurrence count broke their policy
func (f FileOutcome) Mismatches() []rewrite.Outcome {
	var out []rewrite.Outcome
	for _, o := range f.Rules {
		if o.Violated {
			out = append(out, o)
		}
	}
	return out
}

// GuardSkips returns the exactly_one outcomes skipped because their guard did not hold
func (f FileOutcome) GuardSkips() []rewrite.Outcome {
	var out []rewrite.Outcome
	for _, o := range f.Rules {
		if o.Skipped && o.Policy == rule.ExactlyOne {
			out = append(out, o)
		}
	}
	return out
}

// 🔢 Totals are the terminal counts of a batch
type Totals struct {
	Files       int `json:"files" yaml:"files"`
	NotFound    int `json:"not_found" yaml:"not_found"`
	Undecodable int `json:"undecodable" yaml:"undecodable"`
	Unchanged   int `json:"unchanged" yaml:"unchanged"`
	Rewritten   int `json:"rewritten" yaml:"rewritten"`
	Preview     int `json:"preview" yaml:"preview"`
	WriteFailed int `json:"write_failed" yaml:"write_failed"`

	// Mismatched counts rules that found no match under a policy requiring one,
	// plus rules that found more occurrences than their policy allows
	Mismatched int `json:"mismatched" yaml:"mismatched"`
}

// 📚 BatchReport is the ordered set of file outcomes of one run
type BatchReport struct {
	DryRun bool          `json:"dry_run" yaml:"dry_run"`
	Files  []FileOutcome `json:"files" yaml:"files"`
	Totals Totals        `json:"totals" yaml:"totals"`
}

// NewBatchReport builds a report from ordered outcomes and computes its totals
func NewBatchReport(files []FileOutcome, dryRun bool) *BatchReport {
	return &BatchReport{
		DryRun: dryRun,
		Files:  files,
		Totals: Summarize(files),
	}
}

// Summarize counts outcomes by status
func Summarize(files []FileOutcome) Totals {
	t := Totals{Files: len(files)}
	for _, f := range files {
		switch f.Status {
		case StatusNotFound:
			t.NotFound++
		case StatusUndecodable:
			t.Undecodable++
		case StatusUnchanged:
			t.Unchanged++
		case StatusRewritten:
			t.Rewritten++
		case StatusPreview:
			t.Preview++
		case StatusWriteFailed:
			t.WriteFailed++
		}
		t.Mismatched += len(f.Mismatches())
	}
	return t
}

// HasFailures reports whether any rule broke its policy or any write failed
func (r *BatchReport) HasFailures() bool {
	return r.Totals.Mismatched > 0 || r.Totals.WriteFailed > 0
}

// HasSkips reports whether any target could not be loaded
func (r *BatchReport) HasSkips() bool {
	return r.Totals.NotFound > 0 || r.Totals.Undecodable > 0
}

// describeMismatch explains how an outcome broke its policy
func describeMismatch(o rewrite.Outcome) string {
	switch o.Policy {
	case rule.ExactlyOne:
		return "expected exactly one occurrence"
	case rule.ZeroOrOne:
		return "expected at most one occurrence"
	}
	return "occurrence count not allowed"
}
