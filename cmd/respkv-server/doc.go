// Package main provides the entry point for respkv-server.
//
// respkv-server is a single-process key-value server speaking a subset
// of RESP (PING, ECHO, SET with optional PX expiry, GET). It serves:
//
//   - The RESP listener (default 127.0.0.1:6379)
//   - An optional Unix socket listener sharing the same store
//   - An optional HTTP endpoint with /metrics, /health and /ready
//
// Usage:
//
//	respkv-server [flags]
//	respkv-server -config /etc/respkv/config.yaml
//
// Configuration is layered: defaults, YAML file, .env file, RESPKV_*
// environment variables, then flags. Changing log.level in the config
// file takes effect without a restart.
package main
