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
)

var (
	probeDiskUsage = probe.Probe{Name: "disk-usage", Command: "df -h"}
	probeDiskIO    = probe.Probe{Name: "disk-io", Command: "iostat -d 1 2 | tail -n +4"}

	diskIOSubtypeName = "io"
)

// DiskCollector gathers filesystem usage for real block devices plus a
// short I/O activity sample.
type DiskCollector struct {
	Runner probe.Runner
}

// Collect implements the Collector interface.
func (c *DiskCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("collecting disk metrics")

	m := &measurement.Measurement{Type: measurement.TypeDisk}

	if out, ok := run(ctx, c.Runner, probeDiskUsage); ok {
		m.Subtypes = append(m.Subtypes, parseDiskUsage(out)...)
	}

	if out, ok := run(ctx, c.Runner, probeDiskIO); ok {
		if out = strings.TrimSpace(out); out != "" {
			m.Subtypes = append(m.Subtypes, measurement.Subtype{
				Name: diskIOSubtypeName,
				Data: map[string]measurement.Reading{
					measurement.KeyDiskIO: measurement.Str(out),
				},
			})
		}
	}

	return m, nil
}

// parseDiskUsage turns `df -h` output into one subtype per mounted block
// device. Only rows whose filesystem starts with /dev/ are kept, which
// drops tmpfs, devtmpfs, and overlay rows. Malformed rows are skipped.
func parseDiskUsage(out string) []measurement.Subtype {
	var subtypes []measurement.Subtype

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 6 || !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}

		subtypes = append(subtypes, measurement.Subtype{
			Name: fields[0],
			Data: map[string]measurement.Reading{
				measurement.KeyDiskDevice:  measurement.Str(fields[0]),
				measurement.KeyDiskSize:    measurement.Str(fields[1]),
				measurement.KeyDiskUsed:    measurement.Str(fields[2]),
				measurement.KeyDiskAvail:   measurement.Str(fields[3]),
				measurement.KeyDiskPercent: measurement.Str(fields[4]),
				measurement.KeyDiskMount:   measurement.Str(strings.Join(fields[5:], " ")),
			},
		})
	}

	return subtypes
}
