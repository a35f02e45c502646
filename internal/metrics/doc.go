// Package metrics records habit operation counts and latencies.
//
// Recorder is the hook interface used by the repository and the view-state
// holder. NoopRecorder is the default; PrometheusRecorder exports to a
// Prometheus registry that Serve exposes on a local listener.
package metrics
