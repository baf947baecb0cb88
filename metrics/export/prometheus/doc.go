// Package prometheus provides Prometheus collectors for humanproof metrics.
//
// [NewPrometheusExporter] accepts a [humanproof.Engine] and exposes an [http.Handler]
// that renders all humanproof counters and histograms in Prometheus text exposition
// format. Counter names are prefixed humanproof_*_total; the single histogram is
// humanproof_verify_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
