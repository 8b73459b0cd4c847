// Package metric provides Prometheus metrics for respkv.
//
//   - prometheus.go: registry, recording helpers and HTTP handler
//   - collector.go: scrape-time collector for the store size
//
// Metrics are exposed at /metrics in Prometheus format when the metrics
// listener is enabled.
package metric
