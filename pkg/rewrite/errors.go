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

package rewrite

import (
	"fmt"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrConfiguration classifies every fatal, pre-run problem: invalid rules, patterns
// that do not compile and replacements that reference missing capture groups.
var ErrConfiguration = errors.New("configuration error")

// ⚠️ ConfigError locates a configuration problem at a target and rule
type ConfigError struct {
	Target string // target path, empty when the rule is not bound to a target
	Rule   string // rule name, empty when the problem is not rule specific
	Err    error  // underlying cause
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprint(e.Err)
	if e.Rule != "" {
		// rule validation errors already lead with the rule name
		if prefix := fmt.Sprintf("rule %q: ", e.Rule); !strings.HasPrefix(msg, prefix) {
			msg = prefix + msg
		}
	}
	if e.Target != "" {
		msg = fmt.Sprintf("target %s: %s", e.Target, msg)
	}
	return "configuration error: " + msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes every ConfigError match ErrConfiguration
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
