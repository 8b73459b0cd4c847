// Package main provides the entry point for respkv-cli.
//
// The CLI sends commands to a respkv server over RESP:
//
//	respkv-cli                       # interactive REPL
//	respkv-cli ping
//	respkv-cli set session:42 alive --px 30000
//	respkv-cli get session:42
//	respkv-cli -o json GET session:42
//
// Settings come from ~/.respkv/cli.yaml, RESPKV_* environment
// variables and flags, in increasing order of precedence.
package main
