// Package metrics defines the events a study run reports: solved steps,
// profile bindings and failed persistence. Recorders such as the Prometheus
// recorder in infra/metrics turn them into collectors; NopRecorder is used
// when metrics are disabled.
package metrics
