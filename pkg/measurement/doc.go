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

// Package measurement defines the data model for collected host health
// readings.
//
// A Measurement holds one category of host telemetry (System, CPU, Memory,
// Disk, Network, Process, LogErrors). Each Measurement contains one or more
// Subtypes; a Subtype is a named map of field name to Reading. Categories
// with a single logical record (cpu, memory) use one subtype, while
// per-entity categories use one subtype per entity (per disk device, per log
// source).
//
// Readings are runtime-typed but compile-time constrained: scalar readings
// wrap an AllowedScalar via the generic Scalar[T], and line-oriented
// readings (log errors, failed services) use List. Readings marshal to their
// underlying value in JSON and YAML, so a persisted snapshot reads as plain
// nested documents.
//
// A missing or failed probe simply results in an absent key; a Subtype is
// never rejected for partial data.
package measurement
