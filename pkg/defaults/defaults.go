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

package defaults

import "time"

// Probe timeouts for remote command execution.
const (
	// ConnectTimeout is the timeout for establishing the SSH channel.
	ConnectTimeout = 10 * time.Second

	// CommandTimeout is the overall timeout for a single remote command,
	// including session setup and output drain. A probe never blocks longer.
	CommandTimeout = 30 * time.Second
)

// Scheduler settings for the collection loop.
const (
	// Interval is the default polling interval between collection cycles.
	Interval = 300 * time.Second
)

// Probe rate limiting. Probes run sequentially, but a tight interval with
// many probes can still put noticeable load on a small target.
const (
	// ProbeRate is the sustained remote command rate (commands per second).
	ProbeRate = 5

	// ProbeBurst is the maximum command burst allowed by the limiter.
	ProbeBurst = 5
)

// Health thresholds that produce warning-level log entries after assembly.
// Diagnostic only; they never affect the persisted snapshot.
const (
	// TempWarnCelsius is the CPU temperature above which a warning is emitted.
	TempWarnCelsius = 70.0

	// MemoryWarnPercent is the memory usage percent above which a warning is emitted.
	MemoryWarnPercent = 90.0
)

// Bounds on collected log error lines.
const (
	// KernelErrorLines is the number of most recent kernel error lines kept.
	KernelErrorLines = 10

	// JournalErrorLines is the number of most recent journal error lines kept.
	JournalErrorLines = 20

	// JournalErrorWindow is the lookback window for journal errors.
	JournalErrorWindow = time.Hour
)

// Conventional defaults for the remote target.
const (
	// Username is the conventional low-privilege account on the target.
	Username = "pi"

	// SSHPort is the default SSH port on the target.
	SSHPort = 22
)

// Output locations.
const (
	// ArchiveDir is the default directory for snapshot artifacts and logs,
	// relative to the working directory. A per-target subdirectory is
	// created on first use.
	ArchiveDir = "vigil_logs"
)
