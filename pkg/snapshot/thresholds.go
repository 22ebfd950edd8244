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
	"log/slog"

	"github.com/vigil-sh/vigil/pkg/defaults"
	"github.com/vigil-sh/vigil/pkg/measurement"
)

// checkThresholds inspects an assembled snapshot and emits warning log
// entries for values over their health thresholds. Checks are independent
// and purely diagnostic; the snapshot itself is never modified. A missing
// value means the probe failed and no judgement is made.
func checkThresholds(snap *Snapshot) {
	for _, m := range snap.Measurements {
		switch m.Type {
		case measurement.TypeCPU:
			checkTemperature(snap.Target, m)
		case measurement.TypeMemory:
			checkMemoryUsage(snap.Target, m)
		}
	}
}

func checkTemperature(target string, m *measurement.Measurement) {
	for _, st := range m.Subtypes {
		temp, err := st.GetFloat64(measurement.KeyCPUTemp)
		if err != nil {
			continue
		}
		if temp > defaults.TempWarnCelsius {
			slog.Warn("cpu temperature over threshold",
				slog.String("target", target),
				slog.Float64("temperature_c", temp),
				slog.Float64("threshold_c", defaults.TempWarnCelsius))
		}
	}
}

func checkMemoryUsage(target string, m *measurement.Measurement) {
	for _, st := range m.Subtypes {
		if st.Name != "memory" {
			continue
		}
		pct, err := st.GetFloat64(measurement.KeyMemPercent)
		if err != nil {
			continue
		}
		if pct > defaults.MemoryWarnPercent {
			slog.Warn("memory usage over threshold",
				slog.String("target", target),
				slog.Float64("usage_percent", pct),
				slog.Float64("threshold_percent", defaults.MemoryWarnPercent))
		}
	}
}
