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
	probeMemory = probe.Probe{Name: "memory", Command: "free -m"}
	probeSwap   = probe.Probe{Name: "swap", Command: "swapon --show --noheadings"}

	memorySubtypeName = "memory"
	swapSubtypeName   = "swap"
)

// MemoryCollector gathers RAM and swap usage.
type MemoryCollector struct {
	Runner probe.Runner
}

// memRecord holds the parsed Mem: line of free -m output, sizes in MB.
type memRecord struct {
	Total     int64
	Used      int64
	Free      int64
	Available int64
}

// UsagePercent derives used/total*100. Valid only when Total > 0.
func (m memRecord) UsagePercent() float64 {
	return float64(m.Used) / float64(m.Total) * 100
}

// Collect implements the Collector interface.
func (c *MemoryCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("collecting memory metrics")

	m := &measurement.Measurement{Type: measurement.TypeMemory}

	if out, ok := run(ctx, c.Runner, probeMemory); ok {
		if rec, err := parseFreeOutput(out); err == nil {
			data := map[string]measurement.Reading{
				measurement.KeyMemTotal:     measurement.Int64(rec.Total),
				measurement.KeyMemUsed:      measurement.Int64(rec.Used),
				measurement.KeyMemFree:      measurement.Int64(rec.Free),
				measurement.KeyMemAvailable: measurement.Int64(rec.Available),
			}
			// Derived only when both operands parsed and total is positive.
			if rec.Total > 0 {
				data[measurement.KeyMemPercent] = measurement.Float64(rec.UsagePercent())
			}
			m.Subtypes = append(m.Subtypes, measurement.Subtype{
				Name: memorySubtypeName,
				Data: data,
			})
		} else {
			warnParse(probeMemory.Name, out, err)
		}
	}

	if out, ok := run(ctx, c.Runner, probeSwap); ok {
		if data := parseSwapOutput(out); len(data) > 0 {
			m.Subtypes = append(m.Subtypes, measurement.Subtype{
				Name: swapSubtypeName,
				Data: data,
			})
		}
	}

	return m, nil
}

// parseFreeOutput parses `free -m` output. The second line carries the Mem
// record:
//
//	              total        used        free      shared  buff/cache   available
//	Mem:           1024         512         512          20         100         400
//
// Older targets print only four numeric columns; available then falls back
// to free.
func parseFreeOutput(out string) (memRecord, error) {
	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		return memRecord{}, fmt.Errorf("expected at least 2 lines, got %d", len(lines))
	}

	fields := strings.Fields(lines[1])
	if len(fields) < 4 {
		return memRecord{}, fmt.Errorf("expected at least 4 fields in Mem line, got %d", len(fields))
	}

	var rec memRecord
	var err error
	if rec.Total, err = strconv.ParseInt(fields[1], 10, 64); err != nil {
		return memRecord{}, fmt.Errorf("total: %w", err)
	}
	if rec.Used, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
		return memRecord{}, fmt.Errorf("used: %w", err)
	}
	if rec.Free, err = strconv.ParseInt(fields[3], 10, 64); err != nil {
		return memRecord{}, fmt.Errorf("free: %w", err)
	}

	rec.Available = rec.Free
	if len(fields) > 6 {
		if avail, err := strconv.ParseInt(fields[6], 10, 64); err == nil {
			rec.Available = avail
		}
	}

	return rec, nil
}

// parseSwapOutput parses the first line of `swapon --show --noheadings`
// output ("/var/swap file 100M 0B 45%" when a percent column is configured,
// "NAME TYPE SIZE USED PRIO" otherwise). Lines with fewer than 4 fields are
// skipped without raising, leaving swap absent. The percent field is kept
// only when a fifth column parses as a percentage.
func parseSwapOutput(out string) map[string]measurement.Reading {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil
	}

	fields := strings.Fields(lines[0])
	if len(fields) < 4 {
		return nil
	}

	data := map[string]measurement.Reading{
		measurement.KeySwapSize: measurement.Str(fields[1]),
		measurement.KeySwapUsed: measurement.Str(fields[2]),
	}

	if len(fields) >= 5 {
		if pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[4], "%"), 64); err == nil {
			data[measurement.KeySwapPercent] = measurement.Float64(pct)
		}
	}

	return data
}
