package reimage

import (
	"context"
	"errors"
	"fmt"

	"github.com/metalfog/fogctl/internal/platform/ssh"
	"github.com/metalfog/fogctl/internal/util/retry"
)

// waitForReady blocks until the freshly-imaged host is usable: first SSH
// reachability, then (when configured) a sentinel file marking the end of
// post-boot provisioning.
func (r *Reimager) waitForReady(ctx context.Context) error {
	t := r.cfg.Timeouts

	err := retry.Poll(ctx, func() (bool, error) {
		if connErr := r.executor.Connect(ctx); connErr != nil {
			if !ssh.IsRetryableConnectErr(connErr) {
				return false, retry.Fatal(connErr)
			}
			// Logged on every attempt: silent retries would hide things like
			// a mismatched host key until the whole budget is gone.
			r.log.Info("ssh connection attempt failed, retrying", "error", connErr.Error())
			return false, connErr
		}
		return true, nil
	},
		retry.WithInterval(t.SSHPollInterval),
		retry.WithTimeout(t.SSHWait),
	)
	if err != nil {
		if errors.Is(err, retry.ErrBudgetExhausted) {
			return &NotReachableError{Host: r.executor.ShortName()}
		}
		return err
	}

	if r.cfg.SentinelFile != "" {
		if err := r.waitForSentinel(ctx); err != nil {
			return err
		}
	}

	r.log.Info("node is ready")
	return nil
}

// waitForSentinel runs a remote command that blocks until the sentinel file
// exists. Each attempt is bounded so a wedged connection cannot eat the whole
// budget; connection failures are retried.
func (r *Reimager) waitForSentinel(ctx context.Context) error {
	t := r.cfg.Timeouts
	command := fmt.Sprintf("while [ ! -e '%s' ]; do sleep 5; done", r.cfg.SentinelFile)

	err := retry.Poll(ctx, func() (bool, error) {
		if runErr := r.executor.Run(ctx, command, t.SentinelRunTimeout); runErr != nil {
			r.log.Error(runErr, "sentinel wait attempt failed", "sentinel", r.cfg.SentinelFile)
			return false, runErr
		}
		return true, nil
	},
		retry.WithInterval(t.SentinelPollInterval),
		retry.WithTimeout(t.SentinelWait),
	)
	if err != nil {
		if errors.Is(err, retry.ErrBudgetExhausted) {
			return &SentinelTimeoutError{Host: r.executor.ShortName(), Path: r.cfg.SentinelFile}
		}
		return err
	}
	return nil
}
