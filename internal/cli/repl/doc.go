// Package repl provides interactive mode for respkv-cli.
//
// The loop reads one command per line, splits it into arguments with
// redis-cli quoting rules, sends it to the server and prints the reply:
//
//   - repl.go: Main loop and line dispatch
//   - args.go: Argument splitting with quotes and escapes
//   - history.go: Command history persistence
package repl
