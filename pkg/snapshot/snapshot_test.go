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

package snapshot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-sh/vigil/pkg/collector"
	"github.com/vigil-sh/vigil/pkg/header"
	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/probe"
)

// captureSerializer records every snapshot it is asked to serialize.
type captureSerializer struct {
	mu    sync.Mutex
	snaps []*Snapshot
}

func (c *captureSerializer) Serialize(_ context.Context, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = append(c.snaps, v.(*Snapshot))
	return nil
}

func (c *captureSerializer) last() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.snaps) == 0 {
		return nil
	}
	return c.snaps[len(c.snaps)-1]
}

// captureArchive records saved snapshots and can be made to fail.
type captureArchive struct {
	saved []*Snapshot
	err   error
}

func (c *captureArchive) Save(_ context.Context, snap *Snapshot) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.saved = append(c.saved, snap)
	return "/tmp/artifact.json", nil
}

func newTestFactory(runner probe.Runner) collector.Factory {
	return collector.NewDefaultFactory(runner)
}

// healthyRunner scripts every probe command with plausible output from a
// healthy Raspberry Pi.
func healthyRunner() *probe.ScriptRunner {
	return &probe.ScriptRunner{
		Outputs: map[string]string{
			"uptime":              "10:15:42 up 12 days,  3:22,  2 users,  load average: 0.52, 0.58, 0.59",
			"uname -r":            "6.1.21-v8+",
			"cat /etc/os-release": `PRETTY_NAME="Debian GNU/Linux 12 (bookworm)"`,

			`top -bn1 | grep 'Cpu(s)' | awk '{print $2}' | cut -d'%' -f1`: "12.5",
			"cat /proc/loadavg":          "0.52 0.58 0.59 1/189 1442",
			"vcgencmd measure_temp":      "temp=48.3'C",
			"vcgencmd measure_clock arm": "frequency(48)=1500000000",

			"free -m": "              total        used        free      shared  buff/cache   available\nMem:           1024         512         512          20         100         400",
			"swapon --show --noheadings": "/var/swap 100M 0B -2 0%",

			"df -h": "Filesystem Size Used Avail Use% Mounted on\n/dev/root 29G 12G 16G 44% /",
			"iostat -d 1 2 | tail -n +4": "mmcblk0  1.20  12.00  48.00  120  480",

			"ip addr show":      "1: lo: <LOOPBACK,UP> ...",
			"ping -c 3 8.8.8.8": "3 packets transmitted, 3 received",
			"ss -tuln":          "Netid State\ntcp LISTEN 0.0.0.0:22",

			"ps aux --sort=-%cpu | head -10": "USER PID %CPU\nroot 1 2.0",
			"ps aux --sort=-%mem | head -10": "USER PID %MEM\npi 900 8.2",
			"ps aux | wc -l":                 "187",
			"systemctl --failed --no-legend": "",

			"dmesg | grep -i error | tail -10":                             "",
			"journalctl --since='1 hour ago' -p err --no-pager | tail -20": "",
		},
	}
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot()
	require.NotNil(t, snap)
	assert.NotNil(t, snap.Measurements)
	assert.Empty(t, snap.Measurements)
}

func TestMeasureRequiresFactory(t *testing.T) {
	s := &TargetSnapshotter{Target: "pi4.local"}
	assert.Error(t, s.Measure(context.Background()))
}

func TestMeasureHealthyTarget(t *testing.T) {
	runner := healthyRunner()
	ser := &captureSerializer{}
	arc := &captureArchive{}

	s := &TargetSnapshotter{
		Version:    "v0.1.0-test",
		Target:     "pi4.local",
		Factory:    newTestFactory(runner),
		Serializer: ser,
		Archive:    arc,
	}

	require.NoError(t, s.Measure(context.Background()))

	snap := ser.last()
	require.NotNil(t, snap)
	assert.Equal(t, header.KindSnapshot, snap.Kind)
	assert.Equal(t, FullAPIVersion, snap.APIVersion)
	assert.Equal(t, "pi4.local", snap.Target)
	assert.Equal(t, "pi4.local", snap.Metadata["target"])
	assert.NotEmpty(t, snap.Metadata[header.MetaTimestamp])
	assert.NotEmpty(t, snap.Metadata[header.MetaSnapshotID])

	// All seven categories produced data.
	assert.Len(t, snap.Measurements, 7)

	require.Len(t, arc.saved, 1)
	assert.Same(t, snap, arc.saved[0])
}

func TestMeasureUnresponsiveTarget(t *testing.T) {
	// Every probe fails; the cycle still completes and produces a snapshot
	// with header metadata and whatever degraded to a recordable default.
	runner := &probe.ScriptRunner{}
	ser := &captureSerializer{}

	s := &TargetSnapshotter{
		Version:    "v0.1.0-test",
		Target:     "pi4.local",
		Factory:    newTestFactory(runner),
		Serializer: ser,
	}

	require.NoError(t, s.Measure(context.Background()))

	snap := ser.last()
	require.NotNil(t, snap)
	assert.NotEmpty(t, snap.Metadata[header.MetaTimestamp])

	// Only the network category survives, carrying connectivity=false.
	require.Len(t, snap.Measurements, 1)
	assert.Equal(t, measurement.TypeNetwork, snap.Measurements[0].Type)
}

func TestMeasureSequentialProbes(t *testing.T) {
	runner := healthyRunner()
	ser := &captureSerializer{}

	s := &TargetSnapshotter{
		Target:     "pi4.local",
		Factory:    newTestFactory(runner),
		Serializer: ser,
	}

	require.NoError(t, s.Measure(context.Background()))

	// The system collector's probes come before the log collector's; the
	// command stream reflects the fixed category order.
	calls := runner.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "uptime", calls[0])
	assert.Contains(t, calls[len(calls)-1], "journalctl")
}

func TestMeasureArchiveFailureIsNotFatal(t *testing.T) {
	ser := &captureSerializer{}
	arc := &captureArchive{err: assert.AnError}

	s := &TargetSnapshotter{
		Target:     "pi4.local",
		Factory:    newTestFactory(healthyRunner()),
		Serializer: ser,
		Archive:    arc,
	}

	require.NoError(t, s.Measure(context.Background()))
	require.NotNil(t, ser.last())
}

func TestMeasureCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &TargetSnapshotter{
		Target:  "pi4.local",
		Factory: newTestFactory(healthyRunner()),
	}

	assert.Error(t, s.Measure(ctx))
}
