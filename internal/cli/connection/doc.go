// Package connection provides connection management for respkv-cli.
//
// Client keeps one TCP connection to the server, encodes each command as
// a RESP array of bulk strings and reads exactly one reply frame back.
package connection
