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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vigil-sh/vigil/pkg/collector"
	"github.com/vigil-sh/vigil/pkg/header"
	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/serializer"

	"golang.org/x/sync/errgroup"
)

// TargetSnapshotter collects health measurements from a single remote
// target. It runs the category collectors strictly one at a time over a
// shared SSH channel, assembles the snapshot, serializes it, and persists
// the artifact.
type TargetSnapshotter struct {
	// Version is the snapshotter version.
	Version string

	// Target is the host being monitored, used in snapshot metadata and
	// artifact naming.
	Target string

	// Factory is the collector factory to use. Required.
	Factory collector.Factory

	// Serializer is the serializer to use for output. If nil, a default stdout JSON serializer is used.
	Serializer serializer.Serializer

	// Archive persists each snapshot as an artifact. If nil, snapshots are
	// not persisted.
	Archive Archiver
}

// named collector binding for the sequential pipeline.
type categoryCollector struct {
	name   string
	create func() collector.Collector
}

// Measure runs one collection cycle: each category collector in order, one
// at a time, over the shared connection. A collector returns an error only
// on cancellation; probe failures inside a collector degrade to missing
// fields, so a snapshot is produced even from a badly misbehaving target.
// The resulting snapshot is serialized and archived.
func (t *TargetSnapshotter) Measure(ctx context.Context) error {
	if t.Factory == nil {
		return fmt.Errorf("collector factory is required")
	}

	slog.Debug("starting target snapshot", slog.String("target", t.Target))

	start := time.Now()
	defer func() {
		snapshotCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	snap := NewSnapshot()
	snap.Init(header.KindSnapshot, FullAPIVersion, t.Version)
	snap.Target = t.Target
	snap.Metadata[header.MetaTarget] = t.Target
	snap.Measurements = make([]*measurement.Measurement, 0, len(measurement.Types))

	collectors := []categoryCollector{
		{"system", t.Factory.CreateSystemCollector},
		{"cpu", t.Factory.CreateCPUCollector},
		{"memory", t.Factory.CreateMemoryCollector},
		{"disk", t.Factory.CreateDiskCollector},
		{"network", t.Factory.CreateNetworkCollector},
		{"process", t.Factory.CreateProcessCollector},
		{"logs", t.Factory.CreateLogCollector},
	}

	// The limit of one keeps collectors strictly sequential; the remote
	// target sees a single command stream, never concurrent sessions.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(1)

	for _, cc := range collectors {
		g.Go(func() error {
			collectorStart := time.Now()
			defer func() {
				snapshotCollectorDuration.WithLabelValues(cc.name).Observe(time.Since(collectorStart).Seconds())
			}()

			m, err := cc.create().Collect(gctx)
			if err != nil {
				slog.Error("collector aborted", slog.String("collector", cc.name), slog.String("error", err.Error()))
				return fmt.Errorf("failed to collect %s: %w", cc.name, err)
			}
			// Categories with nothing to report are left out of the snapshot.
			if len(m.Subtypes) > 0 {
				snap.Measurements = append(snap.Measurements, m)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		snapshotCollectionTotal.WithLabelValues("error").Inc()
		return err
	}

	snapshotCollectionTotal.WithLabelValues("success").Inc()
	snapshotMeasurementCount.Set(float64(len(snap.Measurements)))

	slog.Debug("snapshot collection complete",
		slog.String("target", t.Target),
		slog.Int("measurements", len(snap.Measurements)))

	checkThresholds(snap)

	if t.Serializer == nil {
		t.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}

	if err := t.Serializer.Serialize(ctx, snap); err != nil {
		slog.Error("failed to serialize", slog.String("error", err.Error()))
		return fmt.Errorf("failed to serialize: %w", err)
	}

	// Persistence failure loses one artifact, not the monitoring loop.
	if t.Archive != nil {
		if path, err := t.Archive.Save(ctx, snap); err != nil {
			slog.Error("failed to archive snapshot",
				slog.String("target", t.Target),
				slog.String("error", err.Error()))
		} else {
			slog.Info("snapshot archived", slog.String("path", path))
		}
	}

	return nil
}
