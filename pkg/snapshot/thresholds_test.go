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

package snapshot

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vigil-sh/vigil/pkg/measurement"
)

// captureWarnings routes the default logger into a buffer for the duration
// of the test and returns it.
func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func snapWithCPUTemp(temp float64) *Snapshot {
	snap := NewSnapshot()
	snap.Target = "pi4.local"
	snap.Measurements = append(snap.Measurements, &measurement.Measurement{
		Type: measurement.TypeCPU,
		Subtypes: []measurement.Subtype{{
			Name: "cpu",
			Data: map[string]measurement.Reading{
				measurement.KeyCPUTemp: measurement.Float64(temp),
			},
		}},
	})
	return snap
}

func snapWithMemoryUsage(pct float64) *Snapshot {
	snap := NewSnapshot()
	snap.Target = "pi4.local"
	snap.Measurements = append(snap.Measurements, &measurement.Measurement{
		Type: measurement.TypeMemory,
		Subtypes: []measurement.Subtype{{
			Name: "memory",
			Data: map[string]measurement.Reading{
				measurement.KeyMemPercent: measurement.Float64(pct),
			},
		}},
	})
	return snap
}

func TestCheckThresholdsTemperature(t *testing.T) {
	t.Run("over threshold warns", func(t *testing.T) {
		buf := captureWarnings(t)
		checkThresholds(snapWithCPUTemp(75.0))
		assert.Contains(t, buf.String(), "cpu temperature over threshold")
	})

	t.Run("under threshold is silent", func(t *testing.T) {
		buf := captureWarnings(t)
		checkThresholds(snapWithCPUTemp(65.0))
		assert.Empty(t, buf.String())
	})

	t.Run("at threshold is silent", func(t *testing.T) {
		buf := captureWarnings(t)
		checkThresholds(snapWithCPUTemp(70.0))
		assert.Empty(t, buf.String())
	})
}

func TestCheckThresholdsMemory(t *testing.T) {
	t.Run("over threshold warns", func(t *testing.T) {
		buf := captureWarnings(t)
		checkThresholds(snapWithMemoryUsage(95.5))
		assert.Contains(t, buf.String(), "memory usage over threshold")
	})

	t.Run("under threshold is silent", func(t *testing.T) {
		buf := captureWarnings(t)
		checkThresholds(snapWithMemoryUsage(50.0))
		assert.Empty(t, buf.String())
	})
}

func TestCheckThresholdsIndependent(t *testing.T) {
	// Both conditions fire in the same snapshot.
	buf := captureWarnings(t)

	snap := snapWithCPUTemp(80.0)
	snap.Measurements = append(snap.Measurements, snapWithMemoryUsage(99.0).Measurements...)

	checkThresholds(snap)
	out := buf.String()
	assert.Contains(t, out, "cpu temperature over threshold")
	assert.Contains(t, out, "memory usage over threshold")
}

func TestCheckThresholdsMissingValues(t *testing.T) {
	// Snapshots without the relevant readings produce no warnings.
	buf := captureWarnings(t)
	checkThresholds(NewSnapshot())
	checkThresholds(&Snapshot{Measurements: []*measurement.Measurement{
		{Type: measurement.TypeCPU, Subtypes: []measurement.Subtype{{Name: "cpu", Data: map[string]measurement.Reading{}}}},
	}})
	assert.Empty(t, buf.String())
}
