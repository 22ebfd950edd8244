// Copyright (c) 2025, Vigil Authors.  All rights reserved.
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

package probe

import (
	"context"
)

// Runner executes a single textual command on a remote target and returns
// its standard output with leading and trailing whitespace removed.
//
// Failures are reported as structured errors tagged with their cause:
//   - errors.ErrCodeConnection - the channel could not be established
//   - errors.ErrCodeTimeout    - the command exceeded its time budget
//   - errors.ErrCodeCommand    - the command exited non-zero
//
// A Runner never retries internally; retry policy, if any, belongs to the
// caller. Implementations must not block longer than their configured
// command timeout.
type Runner interface {
	Run(ctx context.Context, command string) (string, error)
}

// Probe is a named remote diagnostic command. Probes are ephemeral: they
// carry no state between invocations.
type Probe struct {
	// Name identifies the probe in logs and metrics.
	Name string

	// Command is the shell command executed on the target.
	Command string
}
