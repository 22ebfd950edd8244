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

// Package collector provides interfaces and implementations for gathering
// host health readings from a remote target.
//
// # Overview
//
// Each collector owns one category of telemetry: system identity, CPU,
// memory, disk, network, processes, or recent log errors. A collector runs
// one or more probes (remote diagnostic commands) through a shared
// probe.Runner, parses the raw text each probe returns, and assembles the
// typed fields into a measurement.Measurement.
//
// # Core Interface
//
// The Collector interface defines a single method for gathering data:
//
//	type Collector interface {
//	    Collect(ctx context.Context) (*measurement.Measurement, error)
//	}
//
// Collection is best effort by design: a probe that times out, exits
// non-zero, or produces unparsable output degrades only its own fields.
// The failure is logged with its structured cause and the field is simply
// absent from the measurement. A collector returns a non-nil error only on
// context cancellation.
//
// # Factory Pattern
//
// The Factory interface enables dependency injection and testing by
// abstracting collector creation:
//
//	factory := collector.NewDefaultFactory(runner)
//	mem := factory.CreateMemoryCollector()
//	m, err := mem.Collect(ctx)
//
// Tests substitute a probe.ScriptRunner to exercise parsing without a
// reachable target.
//
// # Probe commands
//
// The remote commands assume a conventional Linux userland (procps,
// iproute2, systemd). Commands that are Raspberry Pi specific (vcgencmd)
// degrade gracefully on other targets: the probe fails, the field is
// omitted, and everything else is still collected.
package collector
