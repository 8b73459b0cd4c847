// Package localserver serves RESP over a Unix domain socket.
//
// Local tools can reach the same store as the TCP listener without a
// network port. Access is controlled by the socket file's permissions
// (0600, owner only).
//
// Unlike the TCP listener, Shutdown closes open local connections: a
// local client is expected to reconnect after a restart.
package localserver
