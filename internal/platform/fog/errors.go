package fog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned when a reimage is attempted without the
// required imaging-service configuration.
var ErrNotConfigured = errors.New("imaging service is not configured")

// RequestError describes a non-success response from the imaging service.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("imaging service request %s %s failed with status %d: %s",
		e.Method, e.Path, e.StatusCode, e.Body)
}

// HostNotFoundError indicates the host-search returned zero matches.
type HostNotFoundError struct {
	Name string
}

func (e *HostNotFoundError) Error() string {
	return fmt.Sprintf("host %s not found", e.Name)
}

// AmbiguousHostError indicates the host-search returned multiple matches.
type AmbiguousHostError struct {
	Name  string
	Count int
}

func (e *AmbiguousHostError) Error() string {
	return fmt.Sprintf("more than one host found for %s (%d matches)", e.Name, e.Count)
}

// ImageNotFoundError indicates no image matched the derived name (nor the
// stream fallback). Suggestions holds the image names the service does have
// for the machine type, for actionable diagnostics.
type ImageNotFoundError struct {
	Name        string
	MachineType string
	Suggestions []string
}

func (e *ImageNotFoundError) Error() string {
	return fmt.Sprintf("service has no %s image; available %s images: %s",
		e.Name, e.MachineType, strings.Join(e.Suggestions, ", "))
}

// ScheduleError indicates a deploy task was submitted but no freshly-created
// task could be identified afterwards.
type ScheduleError struct {
	Host string
}

func (e *ScheduleError) Error() string {
	return fmt.Sprintf("no freshly-scheduled deploy task found for host %s", e.Host)
}

// DeployTimeoutError indicates the deploy task did not leave the active list
// within its polling budget.
type DeployTimeoutError struct {
	TaskID int
	Host   string
}

func (e *DeployTimeoutError) Error() string {
	return fmt.Sprintf("deploy task %d for host %s did not complete in time", e.TaskID, e.Host)
}

// IsNotFound reports whether err is a host- or image-lookup miss. Lookup
// misses are fatal to the caller; retrying them cannot help.
func IsNotFound(err error) bool {
	var hostErr *HostNotFoundError
	var imageErr *ImageNotFoundError
	return errors.As(err, &hostErr) || errors.As(err, &imageErr)
}
