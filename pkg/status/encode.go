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
	"encoding/json"
	"io"

	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, report *BatchReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Errorf("encoding report as JSON: %w", err)
	}
	return nil
}

// WriteYAML writes the report as YAML
func WriteYAML(w io.Writer, report *BatchReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return errors.Errorf("encoding report as YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return errors.Errorf("flushing YAML: %w", err)
	}
	return nil
}
