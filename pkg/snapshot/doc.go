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

// Package snapshot assembles health snapshots of a remote target.
//
// # Overview
//
// A snapshot is one complete capture of a target's health: system identity,
// CPU, memory, disk, network, processes, and recent log errors. The
// TargetSnapshotter drives the category collectors strictly one at a time
// over the shared SSH channel, so the monitored host never sees concurrent
// sessions from a single monitor.
//
// # Degradation
//
// Individual probe failures never abort a cycle. A category whose probes
// all failed is simply absent from the snapshot; in the worst case the
// snapshot carries only its header metadata. Only context cancellation
// stops a cycle early.
//
// # Output
//
// Each assembled snapshot is serialized through the configured Serializer
// and, when an Archiver is set, persisted as a timestamped artifact.
// Threshold checks run after assembly and emit warning log entries for
// values over their limits; they never modify the snapshot.
//
// # Usage
//
//	s := &snapshot.TargetSnapshotter{
//		Version:    version,
//		Target:     "pi4.local",
//		Factory:    collector.NewDefaultFactory(runner),
//		Serializer: serializer.NewStdoutWriter(serializer.FormatJSON),
//		Archive:    store,
//	}
//	if err := s.Measure(ctx); err != nil {
//		log.Fatal(err)
//	}
package snapshot
