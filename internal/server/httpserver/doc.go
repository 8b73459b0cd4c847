// Package httpserver provides the HTTP endpoint for operating respkv.
//
// It serves, using stdlib net/http:
//
//   - GET /metrics: Prometheus exposition
//   - GET /health: liveness
//   - GET /ready: readiness with the current key count
//
// Every request passes through Recover, RequestID and AccessLog.
package httpserver
