// Package buildinfo exposes build information for respkv binaries:
// version, commit, build time and Go version. The first three are
// injected via ldflags; the Go version comes from the runtime.
package buildinfo
