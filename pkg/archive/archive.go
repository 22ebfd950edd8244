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

// Package archive persists snapshots as timestamped artifacts on disk.
//
// Each target gets its own subdirectory under the store root, and every
// collection cycle produces one artifact named after the target and the
// capture time:
//
//	vigil_logs/pi4.local/health_pi4.local_20250830_101542.json
//
// Artifacts are never overwritten or pruned; retention is left to the
// operator.
package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vigil-sh/vigil/pkg/header"
	"github.com/vigil-sh/vigil/pkg/serializer"
	"github.com/vigil-sh/vigil/pkg/snapshot"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	// artifactTimeFormat is the capture time layout used in artifact names.
	artifactTimeFormat = "20060102_150405"
)

// Store writes snapshot artifacts under a root directory, one subdirectory
// per target.
type Store struct {
	root   string
	format serializer.Format
}

// NewStore creates a Store rooted at dir, writing artifacts in the given
// format. Only JSON and YAML are supported; anything else falls back to
// JSON.
func NewStore(dir string, format serializer.Format) *Store {
	if format != serializer.FormatYAML {
		format = serializer.FormatJSON
	}
	return &Store{root: dir, format: format}
}

// Save persists snap and returns the artifact path. The target subdirectory
// is created on first use.
func (s *Store) Save(ctx context.Context, snap *snapshot.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if snap == nil {
		return "", fmt.Errorf("nil snapshot")
	}

	dir := filepath.Join(s.root, sanitize(snap.Target))
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	data, err := serializer.Marshal(s.format, snap)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, ArtifactName(snap, s.format))
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	return path, nil
}

// ArtifactName builds the artifact file name for a snapshot:
// health_<target>_<yyyymmdd_hhmmss><ext>. The capture time comes from the
// snapshot header, falling back to the current time when absent.
func ArtifactName(snap *snapshot.Snapshot, format serializer.Format) string {
	captured := time.Now().UTC()
	if ts, err := time.Parse(time.RFC3339, snap.Metadata[header.MetaTimestamp]); err == nil {
		captured = ts.UTC()
	}

	return fmt.Sprintf("health_%s_%s%s",
		sanitize(snap.Target),
		captured.Format(artifactTimeFormat),
		format.Ext())
}

// sanitize makes a target name safe for use as a path component. SSH
// targets can carry user and port decorations that do not belong in file
// names.
func sanitize(target string) string {
	if target == "" {
		return "unknown"
	}
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "@", "_", " ", "_")
	return r.Replace(target)
}
