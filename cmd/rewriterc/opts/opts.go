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

package opts

import (
	"context"
	"path/filepath"

	"github.com/walteh/rewriterc/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ RootOpts holds the flags shared by every command
type RootOpts struct {
	ConfigFile string // path to the rule set
	Dir        string // base directory for target paths, defaults to the config's directory
	Debug      bool
	NoColor    bool
}

// 📚 LoadConfig loads the rule set and resolves the base directory for its targets
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, string, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, "", errors.Errorf("loading config: %w", err)
	}

	baseDir := o.Dir
	if baseDir == "" {
		baseDir = filepath.Dir(o.ConfigFile)
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, "", errors.Errorf("resolving base directory: %w", err)
	}

	return cfg, abs, nil
}
