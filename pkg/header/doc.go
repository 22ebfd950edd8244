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

// Package header provides the common header type for persisted resources.
//
// The Header carries Kind, APIVersion, and Metadata fields following
// Kubernetes-style resource conventions. Init stamps a resource with its
// kind, a creation timestamp in RFC3339, the tool version, and a unique
// snapshot id:
//
//	var h header.Header
//	h.Init(header.KindSnapshot, "v1", version)
//
// Serialized form:
//
//	{
//	  "kind": "Snapshot",
//	  "apiVersion": "v1",
//	  "metadata": {
//	    "timestamp": "2025-12-30T10:30:00Z",
//	    "snapshot-id": "2f9f4e5e-2f2a-4a7e-9a39-7a75f6f0f55f",
//	    "version": "v0.1.0"
//	  }
//	}
package header
