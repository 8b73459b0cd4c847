// Package output renders server replies for respkv-cli.
//
//   - text: redis-cli style ("OK", "(nil)", "(integer) 1", numbered arrays)
//   - json: indented JSON
//   - yaml: YAML document
//
// Error replies become {"error": "..."} in structured formats.
package output
