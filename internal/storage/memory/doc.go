// Package memory provides in-memory storage for respkv.
//
// Store is the only state shared between connections. Each Set or Get
// takes a single shard lock for one map access; no lock is held across
// network I/O and no operation spans more than one key.
//
// There is no background eviction. Expired entries are masked on read
// and reclaimed only when the same key is written again, so Len grows
// with the number of distinct keys ever written.
package memory
