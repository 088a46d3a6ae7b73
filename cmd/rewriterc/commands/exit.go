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

package commands

import (
	"gitlab.com/tozd/go/errors"
)

// ErrBatchFailed is returned when a batch ran but a rule broke its policy, a write
// failed, or (in strict mode) a target was skipped
var ErrBatchFailed = errors.New("batch finished with failures")

// ExitCode maps a command error to the process exit status: 0 on success, 1 when the
// batch ran and reported failures, 2 when it could not run at all
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrBatchFailed):
		return 1
	default:
		return 2
	}
}
