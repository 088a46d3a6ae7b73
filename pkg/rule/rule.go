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

package rule

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidRule is returned for rules that fail static validation
var ErrInvalidRule = errors.New("invalid rule")

// 🔍 Kind selects how a rule's pattern is matched
type Kind string

const (
	KindLiteral Kind = "literal" // exact byte-for-byte substring
	KindRegex   Kind = "regex"   // RE2 regular expression
)

// 📏 Policy states how many occurrences a rule expects
type Policy string

const (
	ExactlyOne Policy = "exactly_one"
	ZeroOrOne  Policy = "zero_or_one"
	ZeroOrMore Policy = "zero_or_more"
)

// regexFlags are the flag letters accepted by regex rules
const regexFlags = "imsU"

// ParseKind parses a kind name, empty defaults to literal
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindLiteral:
		return KindLiteral, nil
	case KindRegex, "regexp":
		return KindRegex, nil
	}
	return "", errors.Errorf("unknown pattern kind %q: %w", s, ErrInvalidRule)
}

// ParsePolicy parses a policy name, empty defaults to exactly_one
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExactlyOne:
		return ExactlyOne, nil
	case ZeroOrOne:
		return ZeroOrOne, nil
	case ZeroOrMore:
		return ZeroOrMore, nil
	}
	return "", errors.Errorf("unknown occurrence policy %q: %w", s, ErrInvalidRule)
}

// Allows reports whether an occurrence count satisfies the policy
func (p Policy) Allows(occurrences int) bool {
	switch p {
	case ExactlyOne:
		return occurrences == 1
	case ZeroOrOne:
		return occurrences <= 1
	case ZeroOrMore:
		return true
	}
	return false
}

// RequiresMatch reports whether the policy treats zero occurrences as a failure
func (p Policy) RequiresMatch() bool {
	return p == ExactlyOne
}

// 🔄 Rule is one named pattern-to-replacement transformation
type Rule struct {
	Name        string `json:"name" yaml:"name"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
	Policy      Policy `json:"policy" yaml:"policy"`

	// Flags holds regex flag letters (i, m, s, U)
	Flags string `json:"flags,omitempty" yaml:"flags,omitempty"`

	// Limit caps how many occurrences are replaced, leftmost first. Zero replaces all.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty"`

	// IfContains and UnlessContains guard the rule on the buffer it receives
	IfContains     []string `json:"if_contains,omitempty" yaml:"if_contains,omitempty"`
	UnlessContains []string `json:"unless_contains,omitempty" yaml:"unless_contains,omitempty"`
}

// WithDefaults fills an unset kind (literal) and policy (exactly_one)
func (r Rule) WithDefaults() Rule {
	if r.Kind == "" {
		r.Kind = KindLiteral
	}
	if r.Policy == "" {
		r.Policy = ExactlyOne
	}
	return r
}

// 🔍 Validate checks the rule's static constraints. Pattern compilation is left to the matcher.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.Errorf("rule name is required: %w", ErrInvalidRule)
	}
	if r.Pattern == "" {
		return errors.Errorf("rule %q: pattern is required: %w", r.Name, ErrInvalidRule)
	}
	switch r.Kind {
	case KindLiteral:
		if r.Flags != "" {
			return errors.Errorf("rule %q: flags are only valid for regex rules: %w", r.Name, ErrInvalidRule)
		}
	case KindRegex:
		for _, f := range r.Flags {
			if !strings.ContainsRune(regexFlags, f) {
				return errors.Errorf("rule %q: unknown regex flag %q: %w", r.Name, f, ErrInvalidRule)
			}
		}
	default:
		return errors.Errorf("rule %q: unknown pattern kind %q: %w", r.Name, r.Kind, ErrInvalidRule)
	}
	switch r.Policy {
	case ExactlyOne, ZeroOrOne, ZeroOrMore:
	default:
		return errors.Errorf("rule %q: unknown occurrence policy %q: %w", r.Name, r.Policy, ErrInvalidRule)
	}
	if r.Limit < 0 {
		return errors.Errorf("rule %q: limit must not be negative: %w", r.Name, ErrInvalidRule)
	}
	for _, g := range append(append([]string{}, r.IfContains...), r.UnlessContains...) {
		if g == "" {
			return errors.Errorf("rule %q: empty guard text: %w", r.Name, ErrInvalidRule)
		}
	}
	return nil
}

// GuardsPass reports whether the rule's guards hold for buf
func (r Rule) GuardsPass(buf string) bool {
	for _, s := range r.IfContains {
		if !strings.Contains(buf, s) {
			return false
		}
	}
	for _, s := range r.UnlessContains {
		if strings.Contains(buf, s) {
			return false
		}
	}
	return true
}

// 🎯 Target is one file path and the ordered rules applied to it
type Target struct {
	Path  string `json:"path" yaml:"path"`
	Rules []Rule `json:"rules" yaml:"rules"`
}

// Validate checks the target and each of its rules
func (t Target) Validate() error {
	if strings.TrimSpace(t.Path) == "" {
		return errors.Errorf("target path is required: %w", ErrInvalidRule)
	}
	for _, r := range t.Rules {
		if err := r.Validate(); err != nil {
			return errors.Errorf("target %s: %w", t.Path, err)
		}
	}
	return nil
}
