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

// Package serializer provides encoding of snapshot data in multiple formats.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, indented representation
//   - The format used for persisted snapshot artifacts
//   - Standard encoding/json package
//
// YAML:
//   - Human-readable with preserved structure
//   - gopkg.in/yaml.v3 package
//
// Table:
//   - Flattened key/value rows for terminal viewing
//   - Numbers grouped for readability via golang.org/x/text
//   - Write-only
//
// # Usage
//
//	w := serializer.NewWriter(serializer.FormatJSON, os.Stdout)
//	defer w.Close()
//	if err := w.Serialize(ctx, snapshot); err != nil {
//		log.Fatal(err)
//	}
//
// Marshal produces the encoded bytes directly for callers that manage
// their own files, such as the snapshot archive.
package serializer
