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
	"strings"
	"sync"

	apperrors "github.com/vigil-sh/vigil/pkg/errors"
)

// ScriptRunner is a Runner for tests. It maps exact command strings to
// canned outputs or errors, and records every command it receives.
// Commands with neither an output nor an error configured fail with a
// COMMAND error, mimicking a missing remote utility.
type ScriptRunner struct {
	// Outputs maps a command to the raw text it should return.
	Outputs map[string]string

	// Errors maps a command to the error it should return.
	Errors map[string]error

	// Err, when set, is returned for every command regardless of Outputs.
	Err error

	mu    sync.Mutex
	calls []string
}

// Run implements the Runner interface.
func (s *ScriptRunner) Run(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeTimeout, "context done", err)
	}

	s.mu.Lock()
	s.calls = append(s.calls, command)
	s.mu.Unlock()

	if s.Err != nil {
		return "", s.Err
	}
	if err, ok := s.Errors[command]; ok {
		return "", err
	}
	if out, ok := s.Outputs[command]; ok {
		return strings.TrimSpace(out), nil
	}

	return "", apperrors.NewWithContext(apperrors.ErrCodeCommand, "command not scripted",
		map[string]any{"command": command})
}

// Calls returns the commands received so far, in order.
func (s *ScriptRunner) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}
