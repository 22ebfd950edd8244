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

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/vigil-sh/vigil/pkg/archive"
	"github.com/vigil-sh/vigil/pkg/collector"
	"github.com/vigil-sh/vigil/pkg/defaults"
	"github.com/vigil-sh/vigil/pkg/logging"
	"github.com/vigil-sh/vigil/pkg/probe"
	"github.com/vigil-sh/vigil/pkg/scheduler"
	"github.com/vigil-sh/vigil/pkg/serializer"
	"github.com/vigil-sh/vigil/pkg/snapshot"
)

const (
	name           = "vigil"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var (
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (supported values: %s)", serializer.SupportedFormats()),
		Sources: cli.EnvVars("VIGIL_FORMAT"),
		Value:   string(serializer.FormatJSON),
	}
	outputDirFlag = &cli.StringFlag{
		Name:    "output-dir",
		Aliases: []string{"o"},
		Usage:   "Directory for snapshot artifacts and per-target log files",
		Sources: cli.EnvVars("VIGIL_OUTPUT_DIR"),
		Value:   defaults.ArchiveDir,
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars("VIGIL_LOG_LEVEL"),
		Value:   "info",
	}
)

// RootCmd builds the vigil command.
func RootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		Usage:                 "Remote host health monitor",
		ArgsUsage:             "TARGET",
		Description: `Monitor the health of a remote Linux host over SSH.

Each collection cycle captures system identity, CPU, memory, disk, network,
process, and recent log error measurements, prints the snapshot, and
persists it as a timestamped artifact under the output directory:

  vigil_logs/<target>/health_<target>_<yyyymmdd_hhmmss>.json

By default vigil polls the target continuously at the configured interval
until interrupted. Use --once for a single capture.

# Examples

Single capture with an explicit key:
  vigil pi4.local -u pi -k ~/.ssh/id_ed25519 --once

Continuous monitoring every minute, YAML artifacts:
  vigil pi4.local -i 60 --format yaml

Continuous monitoring with Prometheus metrics:
  vigil pi4.local --metrics-addr :9402`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "SSH username on the target",
				Sources: cli.EnvVars("VIGIL_USERNAME"),
				Value:   defaults.Username,
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "Path to SSH private key (falls back to the SSH agent)",
				Sources: cli.EnvVars("VIGIL_SSH_KEY"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "SSH port on the target",
				Sources: cli.EnvVars("VIGIL_SSH_PORT"),
				Value:   defaults.SSHPort,
			},
			&cli.IntFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Seconds between collection cycles",
				Sources: cli.EnvVars("VIGIL_INTERVAL"),
				Value:   int(defaults.Interval.Seconds()),
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Run a single collection cycle and exit",
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "Address to serve Prometheus metrics on in continuous mode (e.g., :9402)",
				Sources: cli.EnvVars("VIGIL_METRICS_ADDR"),
			},
			outputDirFlag,
			formatFlag,
			logLevelFlag,
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	target := cmd.Args().First()
	if target == "" {
		return fmt.Errorf("target host is required")
	}
	if cmd.Args().Len() > 1 {
		return fmt.Errorf("expected a single target, got %d", cmd.Args().Len())
	}

	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return fmt.Errorf("unknown output format: %q", outFormat)
	}

	interval := time.Duration(cmd.Int("interval")) * time.Second
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", cmd.Int("interval"))
	}

	initLogger(cmd.String("output-dir"), target, cmd.String("log-level"))

	runner := probe.NewSSHRunner(probe.Config{
		Host:    target,
		Port:    cmd.Int("port"),
		User:    cmd.String("username"),
		KeyPath: cmd.String("key"),
	}, probe.WithRateLimit(defaults.ProbeRate, defaults.ProbeBurst))
	defer runner.Close()

	snapshotter := &snapshot.TargetSnapshotter{
		Version:    version,
		Target:     target,
		Factory:    collector.NewDefaultFactory(runner),
		Serializer: serializer.NewStdoutWriter(outFormat),
		Archive:    archive.NewStore(cmd.String("output-dir"), outFormat),
	}

	sched := scheduler.New(scheduler.Config{
		Interval:    interval,
		Once:        cmd.Bool("once"),
		MetricsAddr: cmd.String("metrics-addr"),
	}, snapshotter)

	return sched.Run(ctx)
}

// initLogger routes structured logs to stdout and, when possible, a
// per-target daily log file under the output directory.
func initLogger(dir, target, level string) {
	var w io.Writer = os.Stdout
	sink, err := logging.NewFileSink(dir, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, logging to stdout only: %v\n", err)
	} else {
		w = sink
	}

	slog.SetDefault(logging.NewStructuredLogger(w, name, version, level))
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"target", target,
		"logLevel", level)
}

// Execute runs the root command with signal-aware cancellation. It is
// called by main.main(). SIGINT and SIGTERM cancel the context; a cycle in
// flight finishes before the process exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
