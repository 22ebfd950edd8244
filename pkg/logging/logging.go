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

package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// envLogLevel is the environment variable consulted when no explicit
// level is provided.
const envLogLevel = "LOG_LEVEL"

// ParseLevel converts a log level string to slog.Level.
// Accepts debug, info, warn, warning, error (case-insensitive).
// Unknown or empty strings default to slog.LevelInfo.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewStructuredLogger creates a JSON slog.Logger writing to w with module and
// version attributes attached to every record. Debug level enables source
// location tracking.
func NewStructuredLogger(w io.Writer, module, version, level string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl := ParseLevel(level)
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})

	return slog.New(handler).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

// SetDefaultStructuredLogger configures the process-wide default logger
// writing JSON to stderr. The log level is read from the LOG_LEVEL
// environment variable, defaulting to info.
func SetDefaultStructuredLogger(module, version string) {
	SetDefaultStructuredLoggerWithLevel(module, version, os.Getenv(envLogLevel))
}

// SetDefaultStructuredLoggerWithLevel configures the process-wide default
// logger writing JSON to stderr at the given level.
func SetDefaultStructuredLoggerWithLevel(module, version, level string) {
	slog.SetDefault(NewStructuredLogger(os.Stderr, module, version, level))
}

// NewLogLogger returns a standard library *log.Logger that forwards to the
// default slog logger at the given level. Useful for libraries that only
// accept a *log.Logger.
func NewLogLogger(level slog.Level) *log.Logger {
	return slog.NewLogLogger(slog.Default().Handler(), level)
}

// FileSink is a log destination teed between standard output and a
// per-target daily log file. Close releases the file handle.
type FileSink struct {
	file *os.File
	w    io.Writer
}

// NewFileSink opens (creating dir and file as needed) the daily log file for
// target under dir and returns a sink writing to both the file and stdout.
// The file is named vigil_<target>_<yyyymmdd>.log, matching one file per
// target per day across restarts.
func NewFileSink(dir, target string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("vigil_%s_%s.log", target, time.Now().Format("20060102"))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	return &FileSink{
		file: f,
		w:    io.MultiWriter(os.Stdout, f),
	}, nil
}

// Write implements io.Writer.
func (s *FileSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// Path returns the path of the underlying log file.
func (s *FileSink) Path() string {
	return s.file.Name()
}

// Close releases the underlying file handle. Safe to call once per sink;
// log records written after Close are lost.
func (s *FileSink) Close() error {
	return s.file.Close()
}
