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
	"strings"

	"github.com/vigil-sh/vigil/pkg/defaults"
	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/probe"
)

var (
	probeKernelErrors = probe.Probe{
		Name:    "kernel-errors",
		Command: fmt.Sprintf("dmesg | grep -i error | tail -%d", defaults.KernelErrorLines),
	}
	probeJournalErrors = probe.Probe{
		Name: "journal-errors",
		Command: fmt.Sprintf("journalctl --since='%d hour ago' -p err --no-pager | tail -%d",
			int(defaults.JournalErrorWindow.Hours()), defaults.JournalErrorLines),
	}

	kernelSubtypeName  = "kernel"
	journalSubtypeName = "journal"
)

// LogCollector gathers recent error lines from the kernel ring buffer and
// the systemd journal.
type LogCollector struct {
	Runner probe.Runner
}

// Collect implements the Collector interface.
func (c *LogCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("collecting log errors")

	m := &measurement.Measurement{Type: measurement.TypeLogs}

	// A successful probe with no matching lines means a clean target, which
	// is recorded as an empty list. Only a failed probe omits the subtype.
	if out, ok := run(ctx, c.Runner, probeKernelErrors); ok {
		m.Subtypes = append(m.Subtypes, measurement.Subtype{
			Name: kernelSubtypeName,
			Data: map[string]measurement.Reading{
				measurement.KeyLogLines: measurement.Strs(splitLogLines(out)),
			},
		})
	}

	if out, ok := run(ctx, c.Runner, probeJournalErrors); ok {
		m.Subtypes = append(m.Subtypes, measurement.Subtype{
			Name: journalSubtypeName,
			Data: map[string]measurement.Reading{
				measurement.KeyLogLines: measurement.Strs(splitLogLines(out)),
			},
		})
	}

	return m, nil
}

// splitLogLines splits probe output into individual lines, returning an
// empty slice for blank output.
func splitLogLines(out string) []string {
	out = strings.TrimSpace(out)
	if out == "" {
		return []string{}
	}
	return strings.Split(out, "\n")
}
