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
	probeInterfaces   = probe.Probe{Name: "interfaces", Command: "ip addr show"}
	probeConnectivity = probe.Probe{Name: "connectivity", Command: "ping -c 3 8.8.8.8"}
	probeSockets      = probe.Probe{Name: "sockets", Command: "ss -tuln"}

	networkSubtypeName = "network"
)

// NetworkCollector gathers interface configuration, internet reachability,
// and listening socket counts.
type NetworkCollector struct {
	Runner probe.Runner
}

// Collect implements the Collector interface.
func (c *NetworkCollector) Collect(ctx context.Context) (*measurement.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("collecting network metrics")

	data := make(map[string]measurement.Reading)

	if out, ok := run(ctx, c.Runner, probeInterfaces); ok {
		data[measurement.KeyNetInterfaces] = measurement.Str(out)
	}

	// Reachability is the ping exit status, not its output. A probe error
	// includes unreachable hosts, so failure maps to false rather than to
	// an omitted field.
	_, reachable := run(ctx, c.Runner, probeConnectivity)
	data[measurement.KeyNetConnectivity] = measurement.Bool(reachable)

	if out, ok := run(ctx, c.Runner, probeSockets); ok {
		data[measurement.KeyNetSockets] = measurement.Int64(countListeningSockets(out))
	}

	m := &measurement.Measurement{Type: measurement.TypeNetwork}
	if len(data) > 0 {
		m.Subtypes = append(m.Subtypes, measurement.Subtype{
			Name: networkSubtypeName,
			Data: data,
		})
	}

	return m, nil
}

// countListeningSockets counts data rows in `ss -tuln` output, excluding
// the header line.
func countListeningSockets(out string) int64 {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) <= 1 {
		return 0
	}
	return int64(len(lines) - 1)
}
