package reimage

import (
	"fmt"

	"github.com/metalfog/fogctl/internal/remote"
)

// NotReachableError indicates the host never became reachable over SSH
// within the post-reimage wait budget.
type NotReachableError struct {
	Host string
}

func (e *NotReachableError) Error() string {
	return fmt.Sprintf("host %s did not become reachable after reimage", e.Host)
}

// SentinelTimeoutError indicates the sentinel file did not appear within the
// readiness wait budget.
type SentinelTimeoutError struct {
	Host string
	Path string
}

func (e *SentinelTimeoutError) Error() string {
	return fmt.Sprintf("sentinel %s did not appear on host %s in time", e.Path, e.Host)
}

// OSMismatchError indicates the installed OS does not match the requested
// one.
type OSMismatchError struct {
	Host     string
	Expected remote.OSIdentity
	Actual   remote.OSIdentity
}

func (e *OSMismatchError) Error() string {
	return fmt.Sprintf("expected %s's OS to be %s but found %s", e.Host, e.Expected, e.Actual)
}
