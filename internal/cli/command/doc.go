// Package command provides CLI command definitions for respkv-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags, mode detection
//   - kv.go: ping, echo, set, get and raw
//   - config.go: Configuration subcommand group
//
// Running respkv-cli with no arguments starts the REPL. Arguments that
// do not name a subcommand are sent to the server as a raw command, so
// "respkv-cli GET foo" works like redis-cli.
package command
