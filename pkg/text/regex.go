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
	"regexp"

	"github.com/walteh/rewriterc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// RegexMatcher matches an RE2 expression with global-substitution semantics
type RegexMatcher struct {
	re       *regexp.Regexp
	template *Template
}

// NewRegexMatcher compiles pattern with the given flag letters and parses the replacement
// template against the pattern's capture groups.
func NewRegexMatcher(pattern, flags, replacement string) (*RegexMatcher, error) {
	expr := pattern
	if flags != "" {
		expr = "(?" + flags + ")" + pattern
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling %q: %v: %w", pattern, err, ErrInvalidPattern)
	}

	tmpl, err := ParseTemplate(replacement, re)
	if err != nil {
		return nil, err
	}

	return &RegexMatcher{
		re:       re,
		template: tmpl,
	}, nil
}

// Kind implements Matcher.Kind
func (m *RegexMatcher) Kind() rule.Kind {
	return rule.KindRegex
}

// Find implements Matcher.Find
func (m *RegexMatcher) Find(buf string) []Match {
	idx := m.re.FindAllStringSubmatchIndex(buf, -1)
	if len(idx) == 0 {
		return nil
	}

	matches := make([]Match, 0, len(idx))
	for _, loc := range idx {
		matches = append(matches, Match{
			Start:  loc[0],
			End:    loc[1],
			Groups: loc,
		})
	}
	return matches
}

// Expand implements Matcher.Expand
func (m *RegexMatcher) Expand(buf string, match Match) string {
	return m.template.Expand(buf, match.Groups)
}

// Regexp returns the compiled expression
func (m *RegexMatcher) Regexp() *regexp.Regexp {
	return m.re
}
