// Package fog is a client for the FOG imaging service REST API.
//
// The package is organized into domain-specific modules:
//
//   - client.go: Client initialization, authentication, and the request wrapper
//   - hosts.go: Host lookup and host record updates
//   - images.go: Image name derivation, lookup, and suggestions
//   - tasks.go: Deploy task scheduling, polling, and cancellation
//   - errors.go: Typed errors and classification helpers
//
// Every request carries two static credential headers (fog-api-token and
// fog-user-token). Timestamps reported by the service use a fixed layout and
// are interpreted as UTC.
//
// The schedule endpoint returns no task id, so ScheduleDeploy identifies the
// task it just created by re-listing active tasks and accepting only one whose
// creation time falls within a short freshness window. The clock and the
// window are injectable for test determinism.
package fog
