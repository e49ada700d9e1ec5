// Package remote defines the boundary interfaces the reimaging core consumes:
// remote command execution on the target host and out-of-band power control.
// Implementations live elsewhere (internal/platform/ssh for execution, the
// CLI wires a command-based power controller).
package remote

import (
	"context"
	"strings"
	"time"
)

// Executor runs commands on the target host.
type Executor interface {
	// Connect probes connectivity without running a command. It returns an
	// error when the host is not reachable.
	Connect(ctx context.Context) error

	// Run executes a command, bounded by timeout when timeout > 0. Output is
	// discarded; the error reflects connection or command failure.
	Run(ctx context.Context, command string, timeout time.Duration) error

	// Output executes a command and returns its stdout.
	Output(ctx context.Context, command string) (string, error)

	// OS detects the identity of the installed operating system.
	OS(ctx context.Context) (OSIdentity, error)

	// Hostname returns the canonical (fully-qualified) target hostname.
	Hostname() string

	// ShortName returns the unqualified target hostname.
	ShortName() string

	// IPAddress resolves the target's current IP address.
	IPAddress(ctx context.Context) (string, error)
}

// PowerController drives out-of-band power control for the target host.
type PowerController interface {
	PowerOff(ctx context.Context) error
	PowerOn(ctx context.Context) error
}

// OSIdentity identifies an installed operating system.
type OSIdentity struct {
	Name    string
	Version string
}

// Equal compares identities; names are matched case-insensitively, versions
// exactly.
func (o OSIdentity) Equal(other OSIdentity) bool {
	return strings.EqualFold(o.Name, other.Name) && o.Version == other.Version
}

func (o OSIdentity) String() string {
	return o.Name + " " + o.Version
}

// CanonicalizeHostname expands a short hostname with the given domain.
// Names that already contain a dot are returned unchanged.
func CanonicalizeHostname(name, domain string) string {
	if strings.Contains(name, ".") || domain == "" {
		return name
	}
	return name + "." + strings.TrimPrefix(domain, ".")
}

// ShortHostname strips the domain portion of a hostname.
func ShortHostname(name string) string {
	short, _, _ := strings.Cut(name, ".")
	return short
}
