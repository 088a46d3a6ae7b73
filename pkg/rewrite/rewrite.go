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

// Package rewrite applies an ordered list of rules to one in-memory buffer.
//
// Each rule sees the buffer left by the previous rule. A rule whose occurrence count
// violates its policy leaves the buffer untouched and the remaining rules still run.
package rewrite

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rule"
	"github.com/walteh/rewriterc/pkg/text"
)

// 🔧 Compiled is a validated rule bound to its matcher
type Compiled struct {
	Rule    rule.Rule
	Matcher text.Matcher
}

// Compile validates r and builds its matcher
func Compile(r rule.Rule) (Compiled, error) {
	r = r.WithDefaults()
	if err := r.Validate(); err != nil {
		return Compiled{}, &ConfigError{Rule: r.Name, Err: err}
	}
	m, err := text.Compile(r)
	if err != nil {
		return Compiled{}, &ConfigError{Rule: r.Name, Err: err}
	}
	return Compiled{Rule: r, Matcher: m}, nil
}

// CompileRules compiles rules in order and stops at the first configuration error
func CompileRules(rules []rule.Rule) ([]Compiled, error) {
	out := make([]Compiled, 0, len(rules))
	for _, r := range rules {
		c, err := Compile(r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// 📋 Outcome records what one rule did to one buffer
type Outcome struct {
	Rule        string      `json:"rule" yaml:"rule"`
	Policy      rule.Policy `json:"policy" yaml:"policy"`
	Matched     bool        `json:"matched" yaml:"matched"`
	Occurrences int         `json:"occurrences" yaml:"occurrences"`
	Replaced    int         `json:"replaced" yaml:"replaced"`
	Applied     bool        `json:"applied" yaml:"applied"`

	// Skipped is set when the rule's guards kept it from running
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// Violated is set when the occurrence count broke the rule's policy
	Violated bool `json:"violated,omitempty" yaml:"violated,omitempty"`
}

// 📦 Result is the buffer before and after a rewrite plus one outcome per rule
type Result struct {
	Original string
	Content  string
	Outcomes []Outcome
}

// Unchanged reports whether the rewrite left the buffer byte-identical
func (r *Result) Unchanged() bool {
	return r.Original == r.Content
}

// Applied counts the rules that changed the buffer
func (r *Result) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Applied {
			n++
		}
	}
	return n
}

// 🔄 Rewriter applies compiled rules to buffers. It holds no state between calls.
type Rewriter struct{}

// NewRewriter creates a Rewriter
func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// Rewrite applies rules to buf in declared order
func (w *Rewriter) Rewrite(ctx context.Context, buf string, rules []Compiled) *Result {
	logger := zerolog.Ctx(ctx)

	result := &Result{
		Original: buf,
		Content:  buf,
		Outcomes: make([]Outcome, 0, len(rules)),
	}

	for _, c := range rules {
		var outcome Outcome
		result.Content, outcome = apply(result.Content, c)
		result.Outcomes = append(result.Outcomes, outcome)

		logger.Debug().
			Str("rule", outcome.Rule).
			Str("policy", string(outcome.Policy)).
			Int("occurrences", outcome.Occurrences).
			Bool("applied", outcome.Applied).
			Bool("skipped", outcome.Skipped).
			Bool("violated", outcome.Violated).
			Msg("rule evaluated")
	}

	return result
}

// apply runs one rule and enforces its occurrence policy
func apply(buf string, c Compiled) (string, Outcome) {
	r := c.Rule
	outcome := Outcome{
		Rule:   r.Name,
		Policy: r.Policy,
	}

	if !r.GuardsPass(buf) {
		outcome.Skipped = true
		return buf, outcome
	}

	out, n := text.Replace(c.Matcher, buf, r.Limit)
	outcome.Occurrences = n

	if !r.Policy.Allows(n) {
		outcome.Violated = true
		return buf, outcome
	}
	if n == 0 {
		return buf, outcome
	}

	outcome.Matched = true
	outcome.Applied = true
	outcome.Replaced = n
	if r.Limit > 0 && r.Limit < n {
		outcome.Replaced = r.Limit
	}
	return out, outcome
}
