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

package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vigil-sh/vigil/pkg/errors"
	"github.com/vigil-sh/vigil/pkg/probe"
)

func TestDefaultFactory(t *testing.T) {
	f := NewDefaultFactory(&probe.ScriptRunner{})

	assert.NotNil(t, f.CreateSystemCollector())
	assert.NotNil(t, f.CreateCPUCollector())
	assert.NotNil(t, f.CreateMemoryCollector())
	assert.NotNil(t, f.CreateDiskCollector())
	assert.NotNil(t, f.CreateNetworkCollector())
	assert.NotNil(t, f.CreateProcessCollector())
	assert.NotNil(t, f.CreateLogCollector())
}

func TestRunReportsFailureWithoutRaising(t *testing.T) {
	runner := &probe.ScriptRunner{
		Errors: map[string]error{
			"true": apperrors.NewWithContext(apperrors.ErrCodeCommand, "exit status 1",
				map[string]any{"stderr": "boom"}),
		},
	}

	out, ok := run(context.Background(), runner, probe.Probe{Name: "noop", Command: "true"})
	assert.False(t, ok)
	assert.Empty(t, out)

	out, ok = run(context.Background(), runner, probe.Probe{Name: "echo", Command: "echo hi"})
	assert.False(t, ok) // unscripted commands fail in tests

	runner.Outputs = map[string]string{"echo hi": "hi"}
	out, ok = run(context.Background(), runner, probe.Probe{Name: "echo", Command: "echo hi"})
	require.True(t, ok)
	assert.Equal(t, "hi", out)
}
