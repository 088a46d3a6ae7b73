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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/rewriterc/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// ErrInvalidConfig is wrapped by every validation error
var ErrInvalidConfig = errors.New("invalid config")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 RuleDef is a named rule as written in a config file
type RuleDef struct {
	Name           string   `json:"name" yaml:"name" hcl:"name,label"`
	Kind           string   `json:"kind,omitempty" yaml:"kind,omitempty" hcl:"kind,optional"`
	Pattern        string   `json:"pattern" yaml:"pattern" hcl:"pattern"`
	Replacement    string   `json:"replacement" yaml:"replacement" hcl:"replacement,optional"`
	Policy         string   `json:"policy,omitempty" yaml:"policy,omitempty" hcl:"policy,optional"`
	Flags          string   `json:"flags,omitempty" yaml:"flags,omitempty" hcl:"flags,optional"`
	Limit          int      `json:"limit,omitempty" yaml:"limit,omitempty" hcl:"limit,optional"`
	IfContains     []string `json:"if_contains,omitempty" yaml:"if_contains,omitempty" hcl:"if_contains,optional"`
	UnlessContains []string `json:"unless_contains,omitempty" yaml:"unless_contains,omitempty" hcl:"unless_contains,optional"`

	// Only restricts the rule to target paths matching one of these globs
	Only []string `json:"only,omitempty" yaml:"only,omitempty" hcl:"only,optional"`
}

// 📦 TargetDef pairs paths with an ordered list of rule names
type TargetDef struct {
	Paths []string `json:"paths" yaml:"paths" hcl:"paths"`
	Rules []string `json:"rules" yaml:"rules" hcl:"rules"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Encoding    string      `json:"encoding,omitempty" yaml:"encoding,omitempty" hcl:"encoding,optional"`
	Concurrency int         `json:"concurrency,omitempty" yaml:"concurrency,omitempty" hcl:"concurrency,optional"`
	Rules       []RuleDef   `json:"rules" yaml:"rules" hcl:"rule,block"`
	Targets     []TargetDef `json:"targets" yaml:"targets" hcl:"target,block"`
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().
		Int("rules", len(cfg.Rules)).
		Int("targets", len(cfg.Targets)).
		Msg("configuration loaded")

	return cfg, nil
}

// toRule converts a definition to an engine rule
func (d RuleDef) toRule() (rule.Rule, error) {
	kind, err := rule.ParseKind(d.Kind)
	if err != nil {
		return rule.Rule{}, errors.Errorf("rule %q: %w", d.Name, err)
	}
	policy, err := rule.ParsePolicy(d.Policy)
	if err != nil {
		return rule.Rule{}, errors.Errorf("rule %q: %w", d.Name, err)
	}
	return rule.Rule{
		Name:           d.Name,
		Kind:           kind,
		Pattern:        d.Pattern,
		Replacement:    d.Replacement,
		Policy:         policy,
		Flags:          d.Flags,
		Limit:          d.Limit,
		IfContains:     d.IfContains,
		UnlessContains: d.UnlessContains,
	}, nil
}

// 🔍 Validate checks if the configuration is valid. Regex compilation is left to the
// runner, which reports it as a configuration error before any file is touched.
func (cfg *Config) Validate() error {
	if cfg.Concurrency < 0 {
		return errors.Errorf("concurrency must not be negative: %w", ErrInvalidConfig)
	}

	names := make(map[string]bool, len(cfg.Rules))
	for i, d := range cfg.Rules {
		if strings.TrimSpace(d.Name) == "" {
			return errors.Errorf("rule %d: name is required: %w", i, ErrInvalidConfig)
		}
		if names[d.Name] {
			return errors.Errorf("rule %q: defined more than once: %w", d.Name, ErrInvalidConfig)
		}
		names[d.Name] = true

		r, err := d.toRule()
		if err != nil {
			return errors.Errorf("%v: %w", err, ErrInvalidConfig)
		}
		if err := r.Validate(); err != nil {
			return errors.Errorf("%v: %w", err, ErrInvalidConfig)
		}
		for _, g := range d.Only {
			if !doublestar.ValidatePattern(g) {
				return errors.Errorf("rule %q: invalid only pattern %q: %w", d.Name, g, ErrInvalidConfig)
			}
		}
	}

	if len(cfg.Targets) == 0 {
		return errors.Errorf("at least one target is required: %w", ErrInvalidConfig)
	}
	for i, t := range cfg.Targets {
		if len(t.Paths) == 0 {
			return errors.Errorf("target %d: paths are required: %w", i, ErrInvalidConfig)
		}
		if len(t.Rules) == 0 {
			return errors.Errorf("target %d: rules are required: %w", i, ErrInvalidConfig)
		}
		for _, p := range t.Paths {
			if strings.TrimSpace(p) == "" {
				return errors.Errorf("target %d: empty path: %w", i, ErrInvalidConfig)
			}
			if isGlob(p) && !doublestar.ValidatePattern(p) {
				return errors.Errorf("target %d: invalid glob %q: %w", i, p, ErrInvalidConfig)
			}
		}
		for _, name := range t.Rules {
			if !names[name] {
				return errors.Errorf("target %d: unknown rule %q: %w", i, name, ErrInvalidConfig)
			}
		}
	}

	return nil
}

// 📚 RuleSet converts every rule definition, in declared order
func (cfg *Config) RuleSet() ([]rule.Rule, error) {
	rules := make([]rule.Rule, 0, len(cfg.Rules))
	for _, d := range cfg.Rules {
		r, err := d.toRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
