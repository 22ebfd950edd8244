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
	"strings"

	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/probe"
	"github.com/vigil-sh/vigil/pkg/version"
)

var (
	probeUptime    = probe.Probe{Name: "uptime", Command: "uptime"}
	probeKernel    = probe.Probe{Name: "kernel", Command: "uname -r"}
	probeOSRelease = probe.Probe{Name: "os-release", Command: "cat /etc/os-release"}

	// Keys kept from os-release; the rest is noise for health diagnosis.
	filterInReleaseKeys = []string{"PRETTY_NAME"}

	systemSubtypeName = "info"
)

// SystemCollector gathers basic system identity: uptime, kernel release,
// and OS version.
type SystemCollector struct {
	Runner probe.Runner
}

// Collect implements the Collector interface.
func (c *SystemCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("collecting system info")

	data := make(map[string]measurement.Reading)
	kernelBase := ""

	if out, ok := run(ctx, c.Runner, probeUptime); ok {
		data[measurement.KeyUptime] = measurement.Str(out)
	}

	if out, ok := run(ctx, c.Runner, probeKernel); ok {
		data[measurement.KeyKernel] = measurement.Str(out)
		if v, err := version.Parse(out); err == nil {
			kernelBase = v.String()
		}
	}

	if out, ok := run(ctx, c.Runner, probeOSRelease); ok {
		release := parseOSRelease(out)
		kept := measurement.FilterIn(release, filterInReleaseKeys)
		if name, ok := kept["PRETTY_NAME"]; ok {
			data[measurement.KeyOSName] = name
		}
	}

	m := &measurement.Measurement{Type: measurement.TypeSystem}
	if len(data) == 0 {
		return m, nil
	}

	st := measurement.Subtype{
		Name: systemSubtypeName,
		Data: data,
	}
	if kernelBase != "" {
		st.Context = map[string]string{"kernel-base": kernelBase}
	}
	m.Subtypes = append(m.Subtypes, st)

	return m, nil
}

// parseOSRelease parses os-release key=value lines into readings, stripping
// surrounding quotes. Malformed lines are skipped individually.
func parseOSRelease(out string) map[string]measurement.Reading {
	readings := make(map[string]measurement.Reading, 15)

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.TrimSpace(kv[0])
		value := strings.Trim(strings.TrimSpace(kv[1]), `"'`)
		if key == "" || value == "" {
			continue
		}
		readings[key] = measurement.Str(value)
	}

	return readings
}
