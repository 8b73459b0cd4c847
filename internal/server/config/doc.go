// Package config provides server configuration for respkv.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (address syntax, sizes, log settings)
//   - redis.go: Conversion to the listener configuration
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
