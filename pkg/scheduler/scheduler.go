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

// Package scheduler drives repeated snapshot collection cycles.
//
// In one-shot mode a single cycle runs and its error is the result. In
// continuous mode cycles run at a fixed interval until the context is
// canceled; cycle errors are logged and the loop keeps going, since a
// transient SSH outage should not take the monitor down. Shutdown is
// graceful: a cycle already in flight finishes before the loop exits.
//
// When running under systemd the scheduler emits readiness and watchdog
// notifications, and an optional Prometheus endpoint exposes collection
// metrics in continuous mode.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vigil-sh/vigil/pkg/defaults"
	"github.com/vigil-sh/vigil/pkg/snapshot"
)

// Config holds scheduler settings.
type Config struct {
	// Interval between the start of consecutive cycles. Defaults to
	// defaults.Interval when zero.
	Interval time.Duration

	// Once runs a single cycle and exits.
	Once bool

	// MetricsAddr, when non-empty, serves Prometheus metrics on this
	// address in continuous mode.
	MetricsAddr string
}

// Scheduler runs snapshot cycles against a single snapshotter.
type Scheduler struct {
	cfg  Config
	snap snapshot.Snapshotter
}

// New creates a Scheduler for the given snapshotter.
func New(cfg Config, snap snapshot.Snapshotter) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	return &Scheduler{cfg: cfg, snap: snap}
}

// Run executes the configured mode. In one-shot mode the cycle error is
// returned directly. In continuous mode Run blocks until ctx is canceled
// and returns nil on clean shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.cfg.Once {
		return s.snap.Measure(ctx)
	}
	return s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) error {
	if s.cfg.MetricsAddr != "" {
		s.serveMetrics(ctx)
	}

	if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		slog.Warn("sd_notify failed", "error", err.Error())
	} else if sent {
		slog.Debug("notified systemd of readiness")
	}
	defer func() {
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	}()

	slog.Info("starting monitoring loop", "interval", s.cfg.Interval.String())

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		s.cycle(ctx)

		select {
		case <-ctx.Done():
			slog.Info("monitoring loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// cycle runs one collection and swallows everything except cancellation,
// which the loop handles on the next select.
func (s *Scheduler) cycle(ctx context.Context) {
	start := time.Now()

	if err := s.snap.Measure(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		slog.Error("collection cycle failed", "error", err.Error())
	} else {
		slog.Info("collection cycle complete", "duration", time.Since(start).String())
	}

	_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
}

// serveMetrics exposes the Prometheus registry until ctx is canceled.
func (s *Scheduler) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              s.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("serving metrics", "addr", s.cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err.Error())
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
