// Package metrics exposes prometheus counters for imaging-service operations.
//
// The active-task listing deliberately soft-fails on malformed responses; the
// outcome label here is what keeps "service said zero tasks" distinguishable
// from "response unparsable" for operators.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for active-task listing.
const (
	OutcomeOK           = "ok"
	OutcomeEmpty        = "empty"
	OutcomeDecodeError  = "decode_error"
	OutcomeRequestError = "request_error"
)

var (
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fogctl",
			Subsystem: "service",
			Name:      "api_calls_total",
			Help:      "Total number of imaging-service API calls by operation and result",
		},
		[]string{"operation", "result"},
	)

	activeTaskListTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fogctl",
			Subsystem: "service",
			Name:      "active_task_list_total",
			Help:      "Active-task list queries by outcome (ok, empty, decode_error, request_error)",
		},
		[]string{"outcome"},
	)

	taskCancellationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fogctl",
			Subsystem: "service",
			Name:      "task_cancellations_total",
			Help:      "Total number of deploy task cancellations by reason",
		},
		[]string{"reason"},
	)

	reimagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fogctl",
			Subsystem: "reimage",
			Name:      "runs_total",
			Help:      "Total number of reimage runs by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		apiCallsTotal,
		activeTaskListTotal,
		taskCancellationsTotal,
		reimagesTotal,
	)
}

// RecordAPICall records one imaging-service API call.
func RecordAPICall(operation, result string) {
	apiCallsTotal.WithLabelValues(operation, result).Inc()
}

// RecordActiveTaskList records the outcome of one active-task list query.
func RecordActiveTaskList(outcome string) {
	activeTaskListTotal.WithLabelValues(outcome).Inc()
}

// RecordTaskCancellation records a deploy task cancellation.
func RecordTaskCancellation(reason string) {
	taskCancellationsTotal.WithLabelValues(reason).Inc()
}

// RecordReimage records the terminal result of a reimage run.
func RecordReimage(result string) {
	reimagesTotal.WithLabelValues(result).Inc()
}
