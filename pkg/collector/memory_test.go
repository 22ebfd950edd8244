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

const freeOutput = `              total        used        free      shared  buff/cache   available
Mem:           1024         512         512          20         100         400
Swap:           100           0         100`

func TestMemoryCollector(t *testing.T) {
	runner := &probe.ScriptRunner{
		Outputs: map[string]string{
			probeMemory.Command: freeOutput,
			probeSwap.Command:   "/var/swap 100M 0B -2 45%",
		},
	}

	c := &MemoryCollector{Runner: runner}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, measurement.TypeMemory, m.Type)

	mem := m.GetSubtype(memorySubtypeName)
	require.NotNil(t, mem)

	total, err := mem.GetInt64(measurement.KeyMemTotal)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), total)

	used, err := mem.GetInt64(measurement.KeyMemUsed)
	require.NoError(t, err)
	assert.Equal(t, int64(512), used)

	free, err := mem.GetInt64(measurement.KeyMemFree)
	require.NoError(t, err)
	assert.Equal(t, int64(512), free)

	avail, err := mem.GetInt64(measurement.KeyMemAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(400), avail)

	pct, err := mem.GetFloat64(measurement.KeyMemPercent)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, pct, 0.001)

	swap := m.GetSubtype(swapSubtypeName)
	require.NotNil(t, swap)

	size, err := swap.GetString(measurement.KeySwapSize)
	require.NoError(t, err)
	assert.Equal(t, "100M", size)

	swapPct, err := swap.GetFloat64(measurement.KeySwapPercent)
	require.NoError(t, err)
	assert.InDelta(t, 45.0, swapPct, 0.001)
}

func TestMemoryCollectorNoAvailableColumn(t *testing.T) {
	out := `              total        used        free      shared     buffers
Mem:            512         256         256          10          50`

	runner := &probe.ScriptRunner{
		Outputs: map[string]string{probeMemory.Command: out},
	}

	c := &MemoryCollector{Runner: runner}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)

	mem := m.GetSubtype(memorySubtypeName)
	require.NotNil(t, mem)

	// Without an available column the free value stands in.
	avail, err := mem.GetInt64(measurement.KeyMemAvailable)
	require.NoError(t, err)
	assert.Equal(t, int64(256), avail)
}

func TestMemoryCollectorAllProbesFail(t *testing.T) {
	runner := &probe.ScriptRunner{}

	c := &MemoryCollector{Runner: runner}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Empty(t, m.Subtypes)
}

func TestParseFreeOutput(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    memRecord
		wantErr bool
	}{
		{
			name: "full output",
			in:   freeOutput,
			want: memRecord{Total: 1024, Used: 512, Free: 512, Available: 400},
		},
		{
			name:    "single line",
			in:      "total used free",
			wantErr: true,
		},
		{
			name:    "non numeric fields",
			in:      "header\nMem: a b c",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := parseFreeOutput(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec)
		})
	}
}

func TestParseSwapOutput(t *testing.T) {
	t.Run("with percent", func(t *testing.T) {
		data := parseSwapOutput("/var/swap 100M 1M -2 45%")
		require.NotNil(t, data)
		assert.Equal(t, "100M", data[measurement.KeySwapSize].Any())
		assert.Equal(t, "1M", data[measurement.KeySwapUsed].Any())
		assert.Equal(t, 45.0, data[measurement.KeySwapPercent].Any())
	})

	t.Run("without percent", func(t *testing.T) {
		data := parseSwapOutput("/var/swap 100M 1M -2")
		require.NotNil(t, data)
		assert.NotContains(t, data, measurement.KeySwapPercent)
	})

	t.Run("short line skipped", func(t *testing.T) {
		assert.Nil(t, parseSwapOutput("/var/swap 100M"))
	})

	t.Run("empty output", func(t *testing.T) {
		assert.Nil(t, parseSwapOutput(""))
	})
}
