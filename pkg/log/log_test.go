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

package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/rewriterc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func newTestLogger(t *testing.T) (*UserLogger, *bytes.Buffer) {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	buf := &bytes.Buffer{}
	return New(ctx, buf), buf
}

func TestUserLogger(t *testing.T) {
	tests := []struct {
		name     string
		op       func(u *UserLogger)
		wantLogs []string
	}{
		{
			name:     "header",
			op:       func(u *UserLogger) { u.Header("rewriting %d files", 3) },
			wantLogs: []string{"rewriting 3 files"},
		},
		{
			name:     "success",
			op:       func(u *UserLogger) { u.Success("done") },
			wantLogs: []string{"✅", "done"},
		},
		{
			name:     "warning",
			op:       func(u *UserLogger) { u.Warning("skipped %s", "a.jsx") },
			wantLogs: []string{"skipped a.jsx"},
		},
		{
			name:     "error_with_cause",
			op:       func(u *UserLogger) { u.Error("run failed", errors.New("boom")) },
			wantLogs: []string{"❌", "run failed", "boom"},
		},
		{
			name:     "validation_ok",
			op:       func(u *UserLogger) { u.LogValidation(true, "config is valid", nil) },
			wantLogs: []string{"config is valid"},
		},
		{
			name:     "validation_failed",
			op:       func(u *UserLogger) { u.LogValidation(false, "config is invalid", errors.New("unknown rule")) },
			wantLogs: []string{"config is invalid", "unknown rule"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, buf := newTestLogger(t)
			tt.op(u)
			for _, want := range tt.wantLogs {
				assert.Contains(t, buf.String(), want, "output should contain %q", want)
			}
		})
	}
}

func TestUserLogger_LogBatch(t *testing.T) {
	tests := []struct {
		name  string
		files []status.FileOutcome
		dry   bool
		want  string
	}{
		{
			name:  "all_clean",
			files: []status.FileOutcome{{Path: "a", Status: status.StatusRewritten}, {Path: "b", Status: status.StatusUnchanged}},
			want:  "1 of 2 files rewritten",
		},
		{
			name:  "dry_run",
			files: []status.FileOutcome{{Path: "a", Status: status.StatusPreview}},
			dry:   true,
			want:  "1 of 1 files would be rewritten",
		},
		{
			name:  "with_skips",
			files: []status.FileOutcome{{Path: "a", Status: status.StatusRewritten}, {Path: "b", Status: status.StatusNotFound}},
			want:  "1 of 2 files rewritten, 1 skipped",
		},
		{
			name:  "with_failures",
			files: []status.FileOutcome{{Path: "a", Status: status.StatusWriteFailed}},
			want:  "0 rule mismatches, 1 failed writes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, buf := newTestLogger(t)
			u.LogBatch(status.NewBatchReport(tt.files, tt.dry))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestFromContext(t *testing.T) {
	u, _ := newTestLogger(t)
	ctx := NewContext(context.Background(), u)
	assert.Same(t, u, FromContext(ctx), "logger should round trip through the context")
	assert.NotNil(t, FromContext(context.Background()), "missing logger should fall back to stdout")
}
