package reimage

import (
	"context"
	"fmt"
	"strings"

	"github.com/metalfog/fogctl/internal/remote"
)

// fixHostname repairs the host's identity after a reimage. The image carries
// the hostname (and /etc/hosts entries) of the machine it was captured from;
// this rewrites them to the target's own name and address.
//
// Substitutions are literal sed replacements across the whole file, matching
// every occurrence. The /etc/hostname rewrite and the trailing hostname set
// run even when /etc/hosts held no match, with failures tolerated.
func (r *Reimager) fixHostname(ctx context.Context) error {
	shortName := r.executor.ShortName()

	wrongHostname, err := r.executor.Output(ctx, "hostname")
	if err != nil {
		return fmt.Errorf("failed to read current hostname: %w", err)
	}
	wrongHostname = strings.TrimSpace(wrongHostname)

	// grep exits non-zero on no match; that is a valid outcome here.
	etcHosts, _ := r.executor.Output(ctx, fmt.Sprintf("grep %s /etc/hosts", wrongHostname))
	etcHosts = strings.TrimSpace(etcHosts)

	if etcHosts != "" {
		firstLine := strings.TrimSpace(strings.Split(etcHosts, "\n")[0])
		wrongIP := strings.Fields(firstLine)[0]

		if err := r.executor.Run(ctx, fmt.Sprintf("sudo hostname %s", shortName), 0); err != nil {
			return fmt.Errorf("failed to set hostname: %w", err)
		}
		if err := r.executor.Run(ctx, sedReplace(wrongHostname, shortName, "/etc/hosts"), 0); err != nil {
			return fmt.Errorf("failed to rewrite /etc/hosts: %w", err)
		}

		ip, err := r.executor.IPAddress(ctx)
		if err != nil {
			return fmt.Errorf("failed to determine host address: %w", err)
		}
		if err := r.executor.Run(ctx, sedReplace(wrongIP, ip, "/etc/hosts"), 0); err != nil {
			return fmt.Errorf("failed to rewrite address in /etc/hosts: %w", err)
		}
	}

	// Fallback pass, tolerated on failure: /etc/hostname may not exist and
	// the hostname may already be correct.
	if err := r.executor.Run(ctx, sedReplace(wrongHostname, shortName, "/etc/hostname"), 0); err != nil {
		r.log.V(1).Info("tolerated /etc/hostname rewrite failure", "error", err.Error())
	}
	if err := r.executor.Run(ctx, fmt.Sprintf("sudo hostname %s", shortName), 0); err != nil {
		r.log.V(1).Info("tolerated hostname set failure", "error", err.Error())
	}
	return nil
}

// sedReplace builds an in-place global substitution command.
func sedReplace(old, new, file string) string {
	return fmt.Sprintf("sudo sed -i -e 's/%s/%s/g' %s", old, new, file)
}

// verifyInstalledOS compares the detected OS identity against the requested
// one.
func (r *Reimager) verifyInstalledOS(ctx context.Context) error {
	wanted := remote.OSIdentity{
		Name:    strings.ToLower(r.osType),
		Version: r.osVersion,
	}
	actual, err := r.executor.OS(ctx)
	if err != nil {
		return fmt.Errorf("failed to detect installed OS: %w", err)
	}
	if !actual.Equal(wanted) {
		return &OSMismatchError{
			Host:     r.executor.ShortName(),
			Expected: wanted,
			Actual:   actual,
		}
	}
	return nil
}
