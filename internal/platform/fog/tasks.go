package fog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/metalfog/fogctl/internal/metrics"
	"github.com/metalfog/fogctl/internal/util/retry"
)

// Task is one in-flight deploy operation on the imaging service.
type Task struct {
	ID          int
	HostName    string
	CreatedTime string
}

// CreatedAt parses the task's creation timestamp, which the service reports
// in UTC.
func (t Task) CreatedAt() (time.Time, error) {
	return time.ParseInLocation(TimestampFormat, t.CreatedTime, time.UTC)
}

type activeTaskResponse struct {
	Tasks []struct {
		ID   flexInt `json:"id"`
		Host struct {
			Name string `json:"name"`
		} `json:"host"`
		CreatedTime string `json:"createdTime"`
	} `json:"tasks"`
}

type taskTypeResponse struct {
	TaskTypes []struct {
		ID   flexInt `json:"id"`
		Name string  `json:"name"`
	} `json:"tasktypes"`
}

// ActiveTasks lists the service's active tasks filtered to the given host.
//
// A request or decode failure is logged and reported as an empty list rather
// than an error: this is a best-effort query and a transient service hiccup
// must not hard-fail the surrounding polling loop. The metrics outcome label
// keeps the empty/unparsable distinction observable.
func (c *Client) ActiveTasks(ctx context.Context, hostName string) []Task {
	_, body, err := c.do(ctx, http.MethodGet, "/task/active", opListActiveTasks, nil, true)
	if err != nil {
		c.log.Error(err, "failed to list active tasks")
		metrics.RecordActiveTaskList(metrics.OutcomeRequestError)
		return nil
	}

	var result activeTaskResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.log.Error(err, "failed to decode active task list")
		metrics.RecordActiveTaskList(metrics.OutcomeDecodeError)
		return nil
	}

	var tasks []Task
	for _, t := range result.Tasks {
		if t.Host.Name != hostName {
			continue
		}
		tasks = append(tasks, Task{
			ID:          int(t.ID),
			HostName:    t.Host.Name,
			CreatedTime: t.CreatedTime,
		})
	}
	if len(tasks) == 0 {
		metrics.RecordActiveTaskList(metrics.OutcomeEmpty)
	} else {
		metrics.RecordActiveTaskList(metrics.OutcomeOK)
	}
	return tasks
}

// ScheduleDeploy schedules a deploy task for the host and returns the id of
// the task it created.
//
// The service refuses concurrent deploys per host, so any tasks still active
// for the host are canceled first. Because the schedule endpoint returns no
// task id, the created task is identified by re-listing active tasks and
// accepting only one created within the freshness window.
func (c *Client) ScheduleDeploy(ctx context.Context, hostID int, hostName string) (int, error) {
	for _, task := range c.ActiveTasks(ctx, hostName) {
		c.log.Info("canceling stale deploy task", "taskID", task.ID)
		if err := c.CancelTask(ctx, task.ID); err != nil {
			return 0, fmt.Errorf("failed to cancel stale task %d: %w", task.ID, err)
		}
		metrics.RecordTaskCancellation("stale")
	}

	deployTypeID, err := c.deployTaskTypeID(ctx)
	if err != nil {
		return 0, err
	}

	_, _, err = c.do(ctx, http.MethodPost, fmt.Sprintf("/host/%d/task", hostID), opScheduleTask,
		map[string]int{"taskTypeID": deployTypeID}, true)
	if err != nil {
		return 0, fmt.Errorf("failed to schedule deploy task for host %s: %w", hostName, err)
	}

	// The service may still list older tasks for the host; accept only a
	// very recent one as ours.
	now := c.now().UTC()
	for _, task := range c.ActiveTasks(ctx, hostName) {
		created, err := task.CreatedAt()
		if err != nil {
			c.log.Error(err, "skipping task with unparsable creation time",
				"taskID", task.ID, "createdTime", task.CreatedTime)
			continue
		}
		if now.Sub(created) < c.freshness {
			return task.ID, nil
		}
	}
	return 0, &ScheduleError{Host: hostName}
}

// deployTaskTypeID looks up the id of the "deploy" task type.
func (c *Client) deployTaskTypeID(ctx context.Context) (int, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/tasktype", opListTaskTypes, map[string]string{"name": "deploy"}, true)
	if err != nil {
		return 0, err
	}

	var result taskTypeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("failed to decode task type response: %w", err)
	}
	for _, tt := range result.TaskTypes {
		if strings.EqualFold(tt.Name, "deploy") {
			return int(tt.ID), nil
		}
	}
	return 0, fmt.Errorf("imaging service has no deploy task type")
}

// TaskActive reports whether the given task is still in the host's active
// task list.
func (c *Client) TaskActive(ctx context.Context, taskID int, hostName string) bool {
	for _, task := range c.ActiveTasks(ctx, hostName) {
		if task.ID == taskID {
			return true
		}
	}
	return false
}

// CancelTask cancels an active deploy task. Failures propagate; an orphaned
// active task would block every later deploy of the host.
func (c *Client) CancelTask(ctx context.Context, taskID int) error {
	c.log.V(1).Info("canceling deploy task", "taskID", taskID)
	_, _, err := c.do(ctx, http.MethodDelete, "/task/cancel", opCancelTask, map[string]int{"id": taskID}, true)
	if err != nil {
		return fmt.Errorf("failed to cancel task %d: %w", taskID, err)
	}
	return nil
}

// WaitForDeploy polls until the task drops out of the active list, meaning
// the deploy finished. The loop ends on the attempt cap or the overall
// timeout, whichever comes first, with a *DeployTimeoutError.
func (c *Client) WaitForDeploy(ctx context.Context, taskID int, hostName string, interval time.Duration, maxAttempts int, timeout time.Duration) error {
	c.log.Info("waiting for deploy to finish", "taskID", taskID)
	err := retry.Poll(ctx, func() (bool, error) {
		return !c.TaskActive(ctx, taskID, hostName), nil
	},
		retry.WithInterval(interval),
		retry.WithMaxAttempts(maxAttempts),
		retry.WithTimeout(timeout),
	)
	if err != nil {
		if errors.Is(err, retry.ErrBudgetExhausted) {
			return &DeployTimeoutError{TaskID: taskID, Host: hostName}
		}
		return err
	}
	return nil
}
