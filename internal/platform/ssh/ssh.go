// Package ssh implements the remote.Executor interface over SSH.
//
// Connections are created per call; the readiness waiter owns the retry
// policy, so this package performs a single dial per attempt. Host key
// verification is disabled: the whole point of a reimage is that the host
// key changes.
package ssh

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/metalfog/fogctl/internal/remote"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
)

// Config holds SSH executor configuration.
type Config struct {
	// Hostname is the canonical (fully-qualified) target hostname.
	Hostname string
	Port     int
	User     string

	// PrivateKey is the PEM-encoded key material. PrivateKeyPath is read at
	// construction when PrivateKey is empty.
	PrivateKey     []byte
	PrivateKeyPath string

	// DialTimeout bounds TCP connection establishment per attempt.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration
}

// Executor executes commands on a remote host via SSH. It implements
// remote.Executor.
type Executor struct {
	config *Config
	signer ssh.Signer
}

// NewExecutor creates an SSH executor and validates the private key.
func NewExecutor(cfg *Config) (*Executor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Hostname == "" {
		return nil, fmt.Errorf("config hostname cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if len(configCopy.PrivateKey) == 0 {
		if configCopy.PrivateKeyPath == "" {
			return nil, fmt.Errorf("config private key cannot be empty")
		}
		key, err := os.ReadFile(configCopy.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key: %w", err)
		}
		configCopy.PrivateKey = key
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return &Executor{
		config: &configCopy,
		signer: signer,
	}, nil
}

// Hostname returns the fully-qualified target hostname.
func (e *Executor) Hostname() string {
	return e.config.Hostname
}

// ShortName returns the unqualified target hostname.
func (e *Executor) ShortName() string {
	return remote.ShortHostname(e.config.Hostname)
}

// Connect probes SSH connectivity with a single dial attempt.
func (e *Executor) Connect(ctx context.Context) error {
	client, err := e.dial(ctx)
	if err != nil {
		return err
	}
	return client.Close()
}

// IsRetryableConnectErr classifies connection failures worth retrying while
// a host boots: network errors, SSH handshake/negotiation errors, inner
// deadline expiry, and torn connections (io.EOF). During the post-reimage
// window even a host-key or auth failure is transient, since sshd comes up
// before provisioning installs keys. Anything else, context cancellation
// included, aborts the wait.
func IsRetryableConnectErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return strings.Contains(err.Error(), "ssh:")
}

// Run executes a command, discarding output. A non-zero timeout bounds the
// whole execution; on expiry the connection is torn down and the deadline
// error is returned.
func (e *Executor) Run(ctx context.Context, command string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	_, err := e.execute(ctx, command)
	return err
}

// Output executes a command and returns its stdout.
func (e *Executor) Output(ctx context.Context, command string) (string, error) {
	return e.execute(ctx, command)
}

// OS detects the installed operating system from /etc/os-release.
func (e *Executor) OS(ctx context.Context) (remote.OSIdentity, error) {
	out, err := e.execute(ctx, "cat /etc/os-release")
	if err != nil {
		return remote.OSIdentity{}, fmt.Errorf("failed to read os-release: %w", err)
	}
	return parseOSRelease(out), nil
}

// IPAddress resolves the target's current address.
func (e *Executor) IPAddress(ctx context.Context) (string, error) {
	addrs, err := net.DefaultResolver.LookupHost(ctx, e.config.Hostname)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", e.config.Hostname, err)
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("no addresses for %s", e.config.Hostname)
	}
	return addrs[0], nil
}

// dial establishes one SSH connection.
func (e *Executor) dial(ctx context.Context) (*ssh.Client, error) {
	config := &ssh.ClientConfig{
		User: e.config.User,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(e.signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // Reimaging regenerates host keys
		Timeout:         e.config.DialTimeout,
	}

	addr := net.JoinHostPort(e.config.Hostname, fmt.Sprintf("%d", e.config.Port))
	dialer := net.Dialer{Timeout: e.config.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}
	return ssh.NewClient(sshConn, chans, reqs), nil
}

// execute runs a command on a fresh connection, honoring ctx cancellation.
func (e *Executor) execute(ctx context.Context, command string) (string, error) {
	client, err := e.dial(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", e.config.Hostname, err)
	}
	defer func() { _ = session.Close() }()

	type result struct {
		output []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		output, runErr := session.CombinedOutput(command)
		done <- result{output: output, err: runErr}
	}()

	select {
	case <-ctx.Done():
		// Closing the client unblocks the session goroutine.
		_ = client.Close()
		return "", fmt.Errorf("command on %s aborted: %w", e.config.Hostname, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return string(res.output), fmt.Errorf("command failed on %s: %w\nCommand: %s\nOutput: %s",
				e.config.Hostname, res.err, command, string(res.output))
		}
		return string(res.output), nil
	}
}

// parseOSRelease extracts the OS identity from /etc/os-release contents.
// CentOS Stream reports VERSION_ID without the stream marker, so the marker
// is re-attached from the NAME field to match image naming.
func parseOSRelease(content string) remote.OSIdentity {
	fields := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}

	identity := remote.OSIdentity{
		Name:    strings.ToLower(fields["ID"]),
		Version: fields["VERSION_ID"],
	}
	if identity.Name == "centos" &&
		strings.Contains(fields["NAME"], "Stream") &&
		!strings.HasSuffix(identity.Version, ".stream") {
		identity.Version += ".stream"
	}
	return identity
}
