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

// Package cli implements the command-line interface for the vigil tool.
//
// # Overview
//
// vigil monitors the health of a remote Linux host over SSH. One positional
// argument names the target; flags control credentials, cadence, and output:
//
//	vigil TARGET [--username USER] [--key PATH] [--interval SECONDS]
//	      [--once] [--output-dir DIR] [--format json|yaml|table]
//	      [--log-level LEVEL] [--metrics-addr ADDR]
//
// # Modes
//
// Continuous (default): collection cycles run at the configured interval
// until SIGINT or SIGTERM, which lets the in-flight cycle finish before
// exiting. One-shot (--once): a single cycle runs and the exit status
// reflects its outcome.
//
// # Output
//
// Each cycle prints the snapshot to stdout in the chosen format and
// persists an artifact under the output directory, alongside a per-target
// daily log file. Logs are structured JSON and go to both sinks.
//
// # Environment
//
// Every flag can also be set through a VIGIL_* environment variable, e.g.
// VIGIL_USERNAME, VIGIL_SSH_KEY, VIGIL_INTERVAL.
package cli
