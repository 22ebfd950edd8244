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

// Package defaults centralizes timeout, threshold, and rate limit constants
// used across vigil components.
//
// Centralizing these values provides:
//   - Single source of truth for tuning
//   - Consistent behavior between the executor, collectors, and scheduler
//   - Easier testing with known values
//
// Components should reference these constants rather than defining their own.
package defaults
