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
	"log/slog"
	"strconv"
	"strings"

	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/probe"
)

var (
	probeTopCPU       = probe.Probe{Name: "top-cpu", Command: "ps aux --sort=-%cpu | head -10"}
	probeTopMemory    = probe.Probe{Name: "top-memory", Command: "ps aux --sort=-%mem | head -10"}
	probeProcessCount = probe.Probe{Name: "process-count", Command: "ps aux | wc -l"}
	probeFailedUnits  = probe.Probe{Name: "failed-units", Command: "systemctl --failed --no-legend"}

	processSubtypeName  = "processes"
	servicesSubtypeName = "services"
)

// ProcessCollector gathers the busiest processes, the overall process
// count, and failed systemd units.
type ProcessCollector struct {
	Runner probe.Runner
}

// Collect implements the Collector interface.
func (c *ProcessCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("collecting process metrics")

	data := make(map[string]measurement.Reading)

	if out, ok := run(ctx, c.Runner, probeTopCPU); ok {
		data[measurement.KeyTopCPU] = measurement.Str(out)
	}

	if out, ok := run(ctx, c.Runner, probeTopMemory); ok {
		data[measurement.KeyTopMemory] = measurement.Str(out)
	}

	if out, ok := run(ctx, c.Runner, probeProcessCount); ok {
		if count, err := parseProcessCount(out); err == nil {
			data[measurement.KeyProcessCount] = measurement.Int64(count)
		} else {
			warnParse(probeProcessCount.Name, out, err)
		}
	}

	m := &measurement.Measurement{Type: measurement.TypeProcess}
	if len(data) > 0 {
		m.Subtypes = append(m.Subtypes, measurement.Subtype{
			Name: processSubtypeName,
			Data: data,
		})
	}

	// An empty result is a healthy target and still worth recording, so
	// the subtype carries an empty list rather than being dropped.
	if out, ok := run(ctx, c.Runner, probeFailedUnits); ok {
		m.Subtypes = append(m.Subtypes, measurement.Subtype{
			Name: servicesSubtypeName,
			Data: map[string]measurement.Reading{
				measurement.KeyFailedServices: measurement.Strs(parseFailedUnits(out)),
			},
		})
	}

	return m, nil
}

// parseProcessCount reads the `ps aux | wc -l` total, subtracting the ps
// header line.
func parseProcessCount(out string) (int64, error) {
	count, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		count--
	}
	return count, nil
}

// parseFailedUnits extracts unit names from `systemctl --failed --no-legend`
// output, one unit per line with the name in the first column. Returns an
// empty slice when no units are failed.
func parseFailedUnits(out string) []string {
	units := []string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		// Newer systemd prefixes failed rows with a bullet marker.
		name := fields[0]
		if (name == "●" || name == "*") && len(fields) > 1 {
			name = fields[1]
		}
		units = append(units, name)
	}
	return units
}
