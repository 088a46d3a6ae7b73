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

// Package diff renders unified diffs of rewritten buffers for previews.
package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of context lines around each hunk
const DefaultContext = 3

// Unified returns a unified diff from before to after, empty when they are equal
func Unified(path, before, after string, context int) string {
	if before == after {
		return ""
	}
	if context <= 0 {
		context = DefaultContext
	}

	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
	})
	if err != nil {
		return ""
	}
	return out
}

// splitLines keeps line terminators and terminates a trailing partial line so hunks
// stay line oriented
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += "\n"
	}
	return lines
}
