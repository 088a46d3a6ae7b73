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

package text

import (
	"strings"

	"github.com/walteh/rewriterc/pkg/rule"
)

// LiteralMatcher matches a pattern byte-for-byte. Whitespace, indentation and line
// endings are significant and nothing is normalized.
type LiteralMatcher struct {
	pattern     string
	replacement string
}

// NewLiteralMatcher creates a LiteralMatcher
func NewLiteralMatcher(pattern, replacement string) *LiteralMatcher {
	return &LiteralMatcher{
		pattern:     pattern,
		replacement: replacement,
	}
}

// Kind implements Matcher.Kind
func (m *LiteralMatcher) Kind() rule.Kind {
	return rule.KindLiteral
}

// Find implements Matcher.Find
func (m *LiteralMatcher) Find(buf string) []Match {
	if m.pattern == "" {
		return nil
	}

	var matches []Match
	offset := 0
	for {
		i := strings.Index(buf[offset:], m.pattern)
		if i < 0 {
			return matches
		}
		start := offset + i
		end := start + len(m.pattern)
		matches = append(matches, Match{Start: start, End: end})
		offset = end
	}
}

// Expand implements Matcher.Expand. Literal replacements are used verbatim.
func (m *LiteralMatcher) Expand(buf string, match Match) string {
	return m.replacement
}
