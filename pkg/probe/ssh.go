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

package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/time/rate"

	"github.com/vigil-sh/vigil/pkg/defaults"
	apperrors "github.com/vigil-sh/vigil/pkg/errors"
)

// Config holds the connection parameters for an SSH runner.
type Config struct {
	// Host is the target address (hostname or IP).
	Host string

	// Port is the SSH port. Defaults to defaults.SSHPort.
	Port int

	// User is the login account. Defaults to defaults.Username.
	User string

	// KeyPath is an optional private key file. When empty, the runner falls
	// back to the SSH agent referenced by SSH_AUTH_SOCK.
	KeyPath string

	// ConnectTimeout bounds channel establishment. Defaults to defaults.ConnectTimeout.
	ConnectTimeout time.Duration

	// CommandTimeout bounds a single command end to end. Defaults to defaults.CommandTimeout.
	CommandTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = defaults.SSHPort
	}
	if c.User == "" {
		c.User = defaults.Username
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = defaults.ConnectTimeout
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = defaults.CommandTimeout
	}
	return c
}

// Addr returns the dialable host:port address of the target.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Option is a functional option for configuring SSHRunner instances.
type Option func(*SSHRunner)

// WithRateLimit overrides the sustained command rate and burst allowed
// against the target.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(r *SSHRunner) {
		r.limiter = rate.NewLimiter(limit, burst)
	}
}

// SSHRunner executes commands on a remote target over SSH.
//
// The underlying client connection is established lazily on first use and
// reused across probes; a failed session invalidates it so the next probe
// redials. Host key verification is intentionally disabled: the tool's job
// is diagnosing hosts that may have been reimaged or are half-broken, the
// same stance as running ssh with StrictHostKeyChecking=no.
type SSHRunner struct {
	cfg     Config
	limiter *rate.Limiter

	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHRunner creates a runner for the given target configuration.
func NewSSHRunner(cfg Config, opts ...Option) *SSHRunner {
	r := &SSHRunner{
		cfg:     cfg.withDefaults(),
		limiter: rate.NewLimiter(rate.Limit(defaults.ProbeRate), defaults.ProbeBurst),
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective runner configuration, defaults applied.
func (r *SSHRunner) Config() Config {
	return r.cfg
}

// Run executes command on the target and returns its trimmed stdout.
// It implements the Runner interface. The call never blocks longer than the
// configured command timeout and never retries.
func (r *SSHRunner) Run(ctx context.Context, command string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeTimeout, "canceled while rate limited", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.CommandTimeout)
	defer cancel()

	client, err := r.connection(runCtx)
	if err != nil {
		return "", err
	}

	session, err := client.NewSession()
	if err != nil {
		r.drop(client)
		return "", apperrors.Wrap(apperrors.ErrCodeConnection, "failed to open session", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	if err := session.Start(command); err != nil {
		r.drop(client)
		return "", apperrors.WrapWithContext(apperrors.ErrCodeConnection, "failed to start command", err,
			map[string]any{"command": command})
	}

	done := make(chan error, 1)
	go func() { done <- session.Wait() }()

	select {
	case <-runCtx.Done():
		// The in-flight remote command is not proactively killed; closing
		// the session unblocks Wait and the deadline bounds our side.
		_ = session.Close()
		r.drop(client)
		return "", apperrors.WrapWithContext(apperrors.ErrCodeTimeout, "command timed out", runCtx.Err(),
			map[string]any{"command": command, "timeout": r.cfg.CommandTimeout.String()})

	case err := <-done:
		if err == nil {
			return strings.TrimSpace(stdout.String()), nil
		}

		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit: keep stderr for diagnostic logging by the caller.
			return "", apperrors.WrapWithContext(apperrors.ErrCodeCommand,
				fmt.Sprintf("command exited with status %d", exitErr.ExitStatus()), err,
				map[string]any{
					"command": command,
					"stderr":  strings.TrimSpace(stderr.String()),
				})
		}

		r.drop(client)
		return "", apperrors.Wrap(apperrors.ErrCodeConnection, "session ended abnormally", err)
	}
}

// Close releases the cached client connection, if any.
func (r *SSHRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// connection returns the cached client, dialing if needed.
func (r *SSHRunner) connection(ctx context.Context) (*ssh.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeTimeout, "canceled before dial", err)
	}

	auths, err := r.authMethods()
	if err != nil {
		return nil, err
	}

	clientCfg := &ssh.ClientConfig{
		User:            r.cfg.User,
		Auth:            auths,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // see SSHRunner doc
		Timeout:         r.cfg.ConnectTimeout,
	}

	addr := r.cfg.Addr()
	conn, err := net.DialTimeout("tcp", addr, r.cfg.ConnectTimeout)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConnection, "failed to dial target", err,
			map[string]any{"addr": addr})
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientCfg)
	if err != nil {
		_ = conn.Close()
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeConnection, "ssh handshake failed", err,
			map[string]any{"addr": addr, "user": r.cfg.User})
	}

	r.client = ssh.NewClient(sshConn, chans, reqs)
	slog.Debug("ssh channel established", "addr", addr, "user", r.cfg.User)
	return r.client, nil
}

// drop invalidates the cached client after a channel-level failure so the
// next probe redials. No-op if a newer client already replaced it.
func (r *SSHRunner) drop(client *ssh.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == client {
		r.client = nil
		_ = client.Close()
	}
}

// authMethods builds the SSH authentication chain: explicit private key
// first, SSH agent fallback.
func (r *SSHRunner) authMethods() ([]ssh.AuthMethod, error) {
	if r.cfg.KeyPath != "" {
		key, err := os.ReadFile(r.cfg.KeyPath)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, "failed to read private key", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, "failed to parse private key", err)
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		conn, err := net.Dial("unix", sock)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeConnection, "failed to reach ssh agent", err)
		}
		return []ssh.AuthMethod{ssh.PublicKeysCallback(agent.NewClient(conn).Signers)}, nil
	}

	return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
		"no credentials: provide a private key path or run an ssh agent")
}
