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

// Package logging provides structured logging utilities for vigil components.
//
// # Overview
//
// This package wraps the standard library slog package with vigil-specific
// defaults and conventions: JSON output, environment-based log level
// configuration (LOG_LEVEL), module/version context injection, and source
// location tracking for debug logs.
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("vigil", "v1.0.0")
//
//	    slog.Info("cycle complete", "target", target)
//	    slog.Warn("high memory usage", "percent", 93.1)
//	    slog.Error("probe failed", "error", err)
//	}
//
// Setting an explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("vigil", "v1.0.0", "debug")
//
// Teeing logs to a per-target daily file in addition to stdout:
//
//	sink, err := logging.NewFileSink("vigil_logs/pi4.local", "pi4.local")
//	if err != nil { ... }
//	defer sink.Close()
//	slog.SetDefault(logging.NewStructuredLogger(sink, "vigil", version, level))
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity when no
// explicit level is given:
//
//	LOG_LEVEL=debug vigil pi4.local --once
//
// If LOG_LEVEL is not set, defaults to INFO level.
package logging
