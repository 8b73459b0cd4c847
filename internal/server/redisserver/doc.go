// Package redisserver serves the RESP command subset over TCP.
//
// Supported commands:
//   - PING [message]
//   - ECHO message
//   - SET key value [PX milliseconds]
//   - GET key
//
// Each accepted connection runs its own Session goroutine. Sessions share
// only the store passed to the Executor. Malformed frames close the
// offending connection; command errors are replied and the connection
// stays open.
package redisserver
