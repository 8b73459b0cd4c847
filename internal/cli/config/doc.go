// Package config provides CLI configuration for respkv-cli.
//
//   - spec.go: CLIConfig struct (~/.respkv/cli.yaml)
//   - loader.go: Loading and saving
//
// The file supplies defaults for the server address, output format,
// request timeout and history location.
package config
