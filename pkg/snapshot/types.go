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

	"github.com/vigil-sh/vigil/pkg/header"
	"github.com/vigil-sh/vigil/pkg/measurement"
)

const (
	// GroupName is the API group for persisted vigil resources.
	GroupName = "vigil.sh"

	// APIVersion is the schema version for persisted vigil resources.
	APIVersion = "v1"

	// FullAPIVersion is the group-qualified schema version.
	FullAPIVersion = GroupName + "/" + APIVersion
)

// Snapshotter defines the interface for collecting health snapshots.
// Implementations gather measurements from a remote target and serialize
// the results.
type Snapshotter interface {
	Measure(ctx context.Context) error
}

// Archiver persists snapshots as artifacts. Save returns the path of the
// written artifact.
type Archiver interface {
	Save(ctx context.Context, snap *Snapshot) (string, error)
}

// NewSnapshot creates a new Snapshot instance with an initialized Measurements slice.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Measurements: make([]*measurement.Measurement, 0),
	}
}

// Snapshot represents one health capture of a remote target. It contains
// header metadata plus the measurements that could be collected this cycle;
// categories whose probes all failed are absent.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	// Target is the host the snapshot was taken from.
	Target string `json:"target" yaml:"target"`

	// Measurements contains the collected measurements by category.
	Measurements []*measurement.Measurement `json:"measurements" yaml:"measurements"`
}
