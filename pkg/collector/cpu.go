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
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/probe"
)

var (
	probeCPUUsage = probe.Probe{
		Name:    "cpu-usage",
		Command: `top -bn1 | grep 'Cpu(s)' | awk '{print $2}' | cut -d'%' -f1`,
	}
	probeLoadAvg = probe.Probe{Name: "load-average", Command: "cat /proc/loadavg"}
	probeCPUTemp = probe.Probe{Name: "cpu-temperature", Command: "vcgencmd measure_temp"}
	probeCPUFreq = probe.Probe{Name: "cpu-frequency", Command: "vcgencmd measure_clock arm"}

	cpuSubtypeName = "cpu"
)

// CPUCollector gathers CPU usage, load averages, temperature, and clock
// frequency. Temperature and frequency come from the firmware interface and
// are absent on targets without it.
type CPUCollector struct {
	Runner probe.Runner
}

// Collect implements the Collector interface.
func (c *CPUCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("collecting cpu metrics")

	data := make(map[string]measurement.Reading)

	if out, ok := run(ctx, c.Runner, probeCPUUsage); ok {
		if usage, err := strconv.ParseFloat(strings.TrimSpace(out), 64); err == nil {
			data[measurement.KeyCPUUsage] = measurement.Float64(usage)
		} else {
			warnParse(probeCPUUsage.Name, out, err)
		}
	}

	if out, ok := run(ctx, c.Runner, probeLoadAvg); ok {
		if l1, l5, l15, err := parseLoadAvg(out); err == nil {
			data[measurement.KeyLoad1] = measurement.Float64(l1)
			data[measurement.KeyLoad5] = measurement.Float64(l5)
			data[measurement.KeyLoad15] = measurement.Float64(l15)
		} else {
			warnParse(probeLoadAvg.Name, out, err)
		}
	}

	if out, ok := run(ctx, c.Runner, probeCPUTemp); ok {
		if temp, err := parseTemperature(out); err == nil {
			data[measurement.KeyCPUTemp] = measurement.Float64(temp)
		} else {
			warnParse(probeCPUTemp.Name, out, err)
		}
	}

	if out, ok := run(ctx, c.Runner, probeCPUFreq); ok {
		if freq, err := parseClock(out); err == nil {
			data[measurement.KeyCPUFreq] = measurement.Int64(freq)
		} else {
			warnParse(probeCPUFreq.Name, out, err)
		}
	}

	m := &measurement.Measurement{Type: measurement.TypeCPU}
	if len(data) > 0 {
		m.Subtypes = append(m.Subtypes, measurement.Subtype{
			Name: cpuSubtypeName,
			Data: data,
		})
	}

	return m, nil
}

// parseLoadAvg extracts the 1, 5, and 15 minute load averages from
// /proc/loadavg content ("0.52 0.58 0.59 1/189 1442").
func parseLoadAvg(out string) (l1, l5, l15 float64, err error) {
	fields := strings.Fields(out)
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}

	loads := make([]float64, 3)
	for i := 0; i < 3; i++ {
		loads[i], err = strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("field %d: %w", i, err)
		}
	}
	return loads[0], loads[1], loads[2], nil
}

// parseTemperature extracts the Celsius value from vcgencmd output
// ("temp=75.0'C").
func parseTemperature(out string) (float64, error) {
	s := strings.TrimSpace(out)
	s = strings.TrimPrefix(s, "temp=")
	s = strings.TrimSuffix(s, "'C")
	return strconv.ParseFloat(s, 64)
}

// parseClock extracts the Hz value from vcgencmd measure_clock output
// ("frequency(48)=1500000000").
func parseClock(out string) (int64, error) {
	_, value, found := strings.Cut(strings.TrimSpace(out), "=")
	if !found {
		return 0, fmt.Errorf("no '=' in clock output %q", out)
	}
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}
