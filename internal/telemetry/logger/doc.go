// Package logger provides structured logging for respkv.
//
//   - logger.go: slog handler setup and runtime level control
//   - context.go: context-carried logger and connection ID
//   - redact.go: secret masking and client payload truncation
//
// Client payloads (SET values, ECHO messages) are logged at most as a
// short preview.
package logger
