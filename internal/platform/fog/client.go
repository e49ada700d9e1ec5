package fog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-logr/logr"

	"github.com/metalfog/fogctl/internal/config"
	"github.com/metalfog/fogctl/internal/metrics"
)

// TimestampFormat is the layout the service uses for task creation times.
// All service timestamps are UTC.
const TimestampFormat = "2006-01-02 15:04:05"

const (
	headerAPIToken  = "fog-api-token"
	headerUserToken = "fog-user-token"

	defaultRequestTimeout  = 30 * time.Second
	defaultFreshnessWindow = 5 * time.Second
)

// Client is an authenticated client for the imaging service API.
type Client struct {
	endpoint   string
	apiToken   string
	userToken  string
	httpClient *http.Client
	log        logr.Logger
	now        func() time.Time
	freshness  time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log logr.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithClock sets the time source used by the task freshness filter.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// WithFreshnessWindow sets the maximum age for a just-scheduled task to be
// accepted as the one this client created.
func WithFreshnessWindow(d time.Duration) ClientOption {
	return func(c *Client) {
		c.freshness = d
	}
}

// NewClient creates a client for the configured imaging service endpoint.
func NewClient(cfg *config.Config, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint,
		apiToken:   cfg.APIToken,
		userToken:  cfg.UserToken,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		log:        logr.Discard(),
		now:        time.Now,
		freshness:  defaultFreshnessWindow,
	}
	if cfg.Timeouts != nil && cfg.Timeouts.FreshnessWindow > 0 {
		c.freshness = cfg.Timeouts.FreshnessWindow
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Operation names for the API call metrics. Metric labels must stay a fixed
// set; request paths carry host and task ids and cannot be used.
const (
	opFindHost        = "find_host"
	opFindImage       = "find_image"
	opSearchImages    = "search_images"
	opSetImage        = "set_image"
	opListTaskTypes   = "list_task_types"
	opScheduleTask    = "schedule_task"
	opListActiveTasks = "list_active_tasks"
	opCancelTask      = "cancel_task"
)

// do submits a request to the imaging service. The payload, when non-nil, is
// JSON-encoded into the request body (the service accepts bodies on GET).
// On a non-success status the status and body are logged; when verify is true
// the call additionally fails with a *RequestError. Callers that need to
// inspect a non-success payload themselves pass verify=false.
func (c *Client) do(ctx context.Context, method, path, operation string, payload any, verify bool) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerAPIToken, c.apiToken)
	req.Header.Set(headerUserToken, c.userToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(operation, "transport_error")
		return 0, nil, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordAPICall(operation, "read_error")
		return resp.StatusCode, nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error(nil, "imaging service returned non-success status",
			"status", resp.StatusCode, "path", path, "body", string(respBody))
		metrics.RecordAPICall(operation, "http_error")
		if verify {
			return resp.StatusCode, respBody, &RequestError{
				Method:     method,
				Path:       path,
				StatusCode: resp.StatusCode,
				Body:       string(respBody),
			}
		}
		return resp.StatusCode, respBody, nil
	}

	metrics.RecordAPICall(operation, "ok")
	return resp.StatusCode, respBody, nil
}

// flexInt decodes service ids, which arrive sometimes as JSON numbers and
// sometimes as quoted strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", s, err)
	}
	*f = flexInt(n)
	return nil
}
