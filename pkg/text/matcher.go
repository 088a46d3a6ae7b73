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

// Package text implements the raw-text pattern matchers behind rewrite rules.
//
// A Matcher finds leftmost, non-overlapping occurrences of a pattern in a buffer and
// computes the replacement for each one. Matchers know nothing about the language of
// the text they scan.
package text

import (
	"strings"

	"github.com/walteh/rewriterc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrInvalidPattern is returned when a pattern cannot be compiled
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidTemplate is returned when a replacement template is malformed
	ErrInvalidTemplate = errors.New("invalid replacement template")

	// ErrUnknownGroup is returned when a replacement references a group the pattern lacks
	ErrUnknownGroup = errors.New("replacement references unknown capture group")
)

// 📍 Match is one occurrence of a pattern in a buffer
type Match struct {
	Start int // byte offset of the first matched byte
	End   int // byte offset one past the last matched byte

	// Groups holds submatch index pairs for regex matches, nil for literal matches
	Groups []int
}

// 🔌 Matcher finds pattern occurrences and computes their replacements
type Matcher interface {
	// Kind reports the pattern kind the matcher implements
	Kind() rule.Kind

	// Find returns all leftmost non-overlapping occurrences in buf, in order
	Find(buf string) []Match

	// Expand returns the replacement text for m, a match previously found in buf
	Expand(buf string, m Match) string
}

// 🏭 Compile builds the matcher for a rule. Every error wraps one of the package errors;
// callers add the rule name.
func Compile(r rule.Rule) (Matcher, error) {
	if r.Pattern == "" {
		return nil, errors.Errorf("empty pattern: %w", ErrInvalidPattern)
	}
	switch r.Kind {
	case rule.KindLiteral, "":
		return NewLiteralMatcher(r.Pattern, r.Replacement), nil
	case rule.KindRegex:
		m, err := NewRegexMatcher(r.Pattern, r.Flags, r.Replacement)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, errors.Errorf("unsupported pattern kind %q: %w", r.Kind, ErrInvalidPattern)
}

// 🔄 Replace counts every occurrence of m in buf and replaces the first limit of them.
// A limit of zero replaces all occurrences.
func Replace(m Matcher, buf string, limit int) (string, int) {
	matches := m.Find(buf)
	if len(matches) == 0 {
		return buf, 0
	}

	n := len(matches)
	if limit > 0 && limit < n {
		n = limit
	}

	var sb strings.Builder
	last := 0
	for _, match := range matches[:n] {
		sb.WriteString(buf[last:match.Start])
		sb.WriteString(m.Expand(buf, match))
		last = match.End
	}
	sb.WriteString(buf[last:])

	return sb.String(), len(matches)
}
