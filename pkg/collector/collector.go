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
	"errors"
	"log/slog"

	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/probe"

	apperrors "github.com/vigil-sh/vigil/pkg/errors"
)

// Collector gathers one category of host health readings from a remote
// target. Per-probe failures degrade only their own fields; a collector
// returns a non-nil error only when the context is done.
type Collector interface {
	Collect(ctx context.Context) (*measurement.Measurement, error)
}

// Factory creates collectors with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateSystemCollector() Collector
	CreateCPUCollector() Collector
	CreateMemoryCollector() Collector
	CreateDiskCollector() Collector
	CreateNetworkCollector() Collector
	CreateProcessCollector() Collector
	CreateLogCollector() Collector
}

// DefaultFactory creates collectors bound to a shared probe runner.
type DefaultFactory struct {
	runner probe.Runner
}

// NewDefaultFactory creates a factory whose collectors probe through runner.
func NewDefaultFactory(runner probe.Runner) *DefaultFactory {
	return &DefaultFactory{runner: runner}
}

// CreateSystemCollector creates a system info collector.
func (f *DefaultFactory) CreateSystemCollector() Collector {
	return &SystemCollector{Runner: f.runner}
}

// CreateCPUCollector creates a CPU metrics collector.
func (f *DefaultFactory) CreateCPUCollector() Collector {
	return &CPUCollector{Runner: f.runner}
}

// CreateMemoryCollector creates a memory metrics collector.
func (f *DefaultFactory) CreateMemoryCollector() Collector {
	return &MemoryCollector{Runner: f.runner}
}

// CreateDiskCollector creates a disk usage collector.
func (f *DefaultFactory) CreateDiskCollector() Collector {
	return &DiskCollector{Runner: f.runner}
}

// CreateNetworkCollector creates a network metrics collector.
func (f *DefaultFactory) CreateNetworkCollector() Collector {
	return &NetworkCollector{Runner: f.runner}
}

// CreateProcessCollector creates a process and service collector.
func (f *DefaultFactory) CreateProcessCollector() Collector {
	return &ProcessCollector{Runner: f.runner}
}

// CreateLogCollector creates a log error collector.
func (f *DefaultFactory) CreateLogCollector() Collector {
	return &LogCollector{Runner: f.runner}
}

// run executes a single probe through r, returning the trimmed output and
// whether it succeeded. Failures are logged with their structured context
// and reported as absent, never raised; each probe is attempted exactly
// once per cycle.
func run(ctx context.Context, r probe.Runner, p probe.Probe) (string, bool) {
	out, err := r.Run(ctx, p.Command)
	if err != nil {
		attrs := []any{
			slog.String("probe", p.Name),
			slog.String("code", string(apperrors.CodeOf(err))),
			slog.String("error", err.Error()),
		}
		var se *apperrors.StructuredError
		if errors.As(err, &se) {
			if stderr, ok := se.Context["stderr"].(string); ok && stderr != "" {
				attrs = append(attrs, slog.String("stderr", stderr))
			}
		}
		slog.Error("probe failed", attrs...)
		return "", false
	}
	return out, true
}

// warnParse logs probe output that could not be parsed into typed fields.
// The field degrades to absent; the entry carries the PARSE code so parse
// failures are distinguishable from probe failures in the log stream.
func warnParse(probeName, out string, cause error) {
	err := apperrors.Wrap(apperrors.ErrCodeParse, "unparsable probe output", cause)
	slog.Warn("probe output unparsable",
		slog.String("probe", probeName),
		slog.String("code", string(apperrors.ErrCodeParse)),
		slog.String("output", out),
		slog.String("error", err.Error()))
}
