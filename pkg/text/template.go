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
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🧩 Template is a parsed regex replacement.
//
// Group references may be written as \N, \g<N>, \g<name>, $N, ${N}, $name or ${name}.
// Group 0 is the whole match, so \0 and $0 are the same as \g<0> (not a NUL byte).
// \\ and $$ produce a literal backslash and dollar sign; \n, \t and \r produce the
// matching control characters. Any other backslash is kept as written.
//
// JavaScript template literals must escape the dollar sign: `$${API}/x` expands to
// `${API}/x`.
type Template struct {
	segments []segment
}

type segment struct {
	literal string
	group   int // -1 for literal segments
}

// ParseTemplate parses src and resolves every group reference against re
func ParseTemplate(src string, re *regexp.Regexp) (*Template, error) {
	t := &Template{}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}
	ref := func(name string) error {
		idx, err := resolveGroup(name, re)
		if err != nil {
			return err
		}
		flush()
		t.segments = append(t.segments, segment{group: idx})
		return nil
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src):
			next := src[i+1]
			switch {
			case next == '\\':
				lit.WriteByte('\\')
				i += 2
			case next == 'n':
				lit.WriteByte('\n')
				i += 2
			case next == 't':
				lit.WriteByte('\t')
				i += 2
			case next == 'r':
				lit.WriteByte('\r')
				i += 2
			case isDigit(next):
				j := i + 1
				for j < len(src) && isDigit(src[j]) {
					j++
				}
				if err := ref(src[i+1 : j]); err != nil {
					return nil, err
				}
				i = j
			case next == 'g' && i+2 < len(src) && src[i+2] == '<':
				end := strings.IndexByte(src[i+3:], '>')
				if end < 0 {
					return nil, errors.Errorf("unterminated \\g< reference at offset %d: %w", i, ErrInvalidTemplate)
				}
				if err := ref(src[i+3 : i+3+end]); err != nil {
					return nil, err
				}
				i += 3 + end + 1
			default:
				lit.WriteByte(c)
				i++
			}
		case c == '$' && i+1 < len(src):
			next := src[i+1]
			switch {
			case next == '$':
				lit.WriteByte('$')
				i += 2
			case next == '{':
				end := strings.IndexByte(src[i+2:], '}')
				if end < 0 {
					return nil, errors.Errorf("unterminated ${ reference at offset %d: %w", i, ErrInvalidTemplate)
				}
				if err := ref(src[i+2 : i+2+end]); err != nil {
					return nil, err
				}
				i += 2 + end + 1
			case isNameByte(next):
				j := i + 1
				for j < len(src) && isNameByte(src[j]) {
					j++
				}
				if err := ref(src[i+1 : j]); err != nil {
					return nil, err
				}
				i = j
			default:
				lit.WriteByte(c)
				i++
			}
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()

	return t, nil
}

func resolveGroup(name string, re *regexp.Regexp) (int, error) {
	if name == "" {
		return 0, errors.Errorf("empty group reference: %w", ErrInvalidTemplate)
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 || n > re.NumSubexp() {
			return 0, errors.Errorf("group %d (pattern has %d): %w", n, re.NumSubexp(), ErrUnknownGroup)
		}
		return n, nil
	}
	for _, c := range []byte(name) {
		if !isNameByte(c) {
			return 0, errors.Errorf("invalid group name %q: %w", name, ErrInvalidTemplate)
		}
	}
	idx := re.SubexpIndex(name)
	if idx < 0 {
		return 0, errors.Errorf("group %q (write $$ for a literal dollar sign): %w", name, ErrUnknownGroup)
	}
	return idx, nil
}

// Expand renders the template for one match. groups holds submatch index pairs as
// returned by regexp; groups that did not participate expand to nothing.
func (t *Template) Expand(buf string, groups []int) string {
	var sb strings.Builder
	for _, s := range t.segments {
		if s.group < 0 {
			sb.WriteString(s.literal)
			continue
		}
		if 2*s.group+1 >= len(groups) {
			continue
		}
		start, end := groups[2*s.group], groups[2*s.group+1]
		if start >= 0 && end >= 0 {
			sb.WriteString(buf[start:end])
		}
	}
	return sb.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameByte(c byte) bool {
	return c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
