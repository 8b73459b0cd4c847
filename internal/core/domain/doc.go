// Package domain defines the core domain models for respkv.
//
// Domain models are plain values without any IO dependencies:
//
//   - Entry: a stored value with an optional absolute expiry
//   - Errors: command-level errors sent back to clients
//
// Expiry is evaluated against a caller-supplied clock so the storage
// layer decides what "now" is.
package domain
