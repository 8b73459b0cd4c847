// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that supports
// multiple sources using koanf as the underlying library.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables, optionally seeded from a .env file
//  3. Configuration file (YAML)
//  4. Default values
//
// Watcher reports changes to a configuration file so callers can apply
// the settings that are safe to change at runtime.
package confloader
