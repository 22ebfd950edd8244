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

package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vigil-sh/vigil/pkg/errors"
	"github.com/vigil-sh/vigil/pkg/measurement"
	"github.com/vigil-sh/vigil/pkg/probe"
)

const ssOutput = `Netid State  Recv-Q Send-Q Local Address:Port Peer Address:Port
tcp   LISTEN 0      128          0.0.0.0:22        0.0.0.0:*
tcp   LISTEN 0      128          0.0.0.0:80        0.0.0.0:*
udp   UNCONN 0      0            0.0.0.0:68        0.0.0.0:*`

func TestNetworkCollector(t *testing.T) {
	runner := &probe.ScriptRunner{
		Outputs: map[string]string{
			probeInterfaces.Command:   "1: lo: <LOOPBACK,UP> ...\n2: eth0: <BROADCAST,UP> ...",
			probeConnectivity.Command: "3 packets transmitted, 3 received, 0% packet loss",
			probeSockets.Command:      ssOutput,
		},
	}

	c := &NetworkCollector{Runner: runner}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, measurement.TypeNetwork, m.Type)

	net := m.GetSubtype(networkSubtypeName)
	require.NotNil(t, net)

	reachable, err := net.GetBool(measurement.KeyNetConnectivity)
	require.NoError(t, err)
	assert.True(t, reachable)

	sockets, err := net.GetInt64(measurement.KeyNetSockets)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sockets)

	assert.True(t, net.Has(measurement.KeyNetInterfaces))
}

func TestNetworkCollectorUnreachable(t *testing.T) {
	// ping exiting non-zero means no internet; the field is recorded as
	// false rather than omitted.
	runner := &probe.ScriptRunner{
		Outputs: map[string]string{
			probeInterfaces.Command: "1: lo: <LOOPBACK,UP> ...",
			probeSockets.Command:    ssOutput,
		},
		Errors: map[string]error{
			probeConnectivity.Command: apperrors.New(apperrors.ErrCodeCommand, "exit status 1"),
		},
	}

	c := &NetworkCollector{Runner: runner}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)

	net := m.GetSubtype(networkSubtypeName)
	require.NotNil(t, net)

	reachable, err := net.GetBool(measurement.KeyNetConnectivity)
	require.NoError(t, err)
	assert.False(t, reachable)
}

func TestNetworkCollectorAllProbesFail(t *testing.T) {
	c := &NetworkCollector{Runner: &probe.ScriptRunner{}}
	m, err := c.Collect(context.Background())
	require.NoError(t, err)

	// Connectivity is still reported false even when everything fails.
	net := m.GetSubtype(networkSubtypeName)
	require.NotNil(t, net)
	reachable, err := net.GetBool(measurement.KeyNetConnectivity)
	require.NoError(t, err)
	assert.False(t, reachable)
	assert.False(t, net.Has(measurement.KeyNetInterfaces))
	assert.False(t, net.Has(measurement.KeyNetSockets))
}

func TestCountListeningSockets(t *testing.T) {
	assert.Equal(t, int64(3), countListeningSockets(ssOutput))
	assert.Equal(t, int64(0), countListeningSockets("Netid State Recv-Q"))
	assert.Equal(t, int64(0), countListeningSockets(""))
}
