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

	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/probe"
)

const osReleaseOutput = `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"
NAME="Debian GNU/Linux"
VERSION_ID="12"
ID=debian
# comment line
MALFORMED LINE WITHOUT EQUALS`

func TestSystemCollector(t *testing.T) {
	runner := &probe.ScriptRunner{
		Outputs: map[string]string{
			probeUptime.Command:    "10:15:42 up 12 days,  3:22,  2 users,  load average: 0.52, 0.58, 0.59",
			probeKernel.Command:    "6.1.21-v8+",
			probeOSRelease.Command: osReleaseOutput,
		},
	}

	c := &SystemCollector{Runner: runner}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, measurement.TypeSystem, m.Type)

	info := m.GetSubtype(systemSubtypeName)
	require.NotNil(t, info)

	kernel, err := info.GetString(measurement.KeyKernel)
	require.NoError(t, err)
	assert.Equal(t, "6.1.21-v8+", kernel)

	osName, err := info.GetString(measurement.KeyOSName)
	require.NoError(t, err)
	assert.Equal(t, "Debian GNU/Linux 12 (bookworm)", osName)

	assert.True(t, info.Has(measurement.KeyUptime))
	assert.Equal(t, "6.1.21", info.Context["kernel-base"])
}

func TestSystemCollectorPartialFailure(t *testing.T) {
	// Only uptime is scripted; the kernel and os-release probes fail and
	// their fields are absent.
	runner := &probe.ScriptRunner{
		Outputs: map[string]string{
			probeUptime.Command: "up 1 day",
		},
	}

	c := &SystemCollector{Runner: runner}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)

	info := m.GetSubtype(systemSubtypeName)
	require.NotNil(t, info)
	assert.True(t, info.Has(measurement.KeyUptime))
	assert.False(t, info.Has(measurement.KeyKernel))
	assert.False(t, info.Has(measurement.KeyOSName))
}

func TestSystemCollectorAllProbesFail(t *testing.T) {
	c := &SystemCollector{Runner: &probe.ScriptRunner{}}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Empty(t, m.Subtypes)
}

func TestSystemCollectorCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &SystemCollector{Runner: &probe.ScriptRunner{}}
	_, err := c.Collect(ctx)
	assert.Error(t, err)
}

func TestParseOSRelease(t *testing.T) {
	readings := parseOSRelease(osReleaseOutput)

	assert.Len(t, readings, 4)
	assert.Equal(t, "Debian GNU/Linux 12 (bookworm)", readings["PRETTY_NAME"].Any())
	assert.Equal(t, "debian", readings["ID"].Any())
	assert.NotContains(t, readings, "MALFORMED LINE WITHOUT EQUALS")
}
