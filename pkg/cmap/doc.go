// Package cmap provides a concurrent map implementation for respkv.
//
// Usage:
//
//	m := cmap.New[domain.Entry]()
//	m.Set("key", entry)
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are thread-safe. Get uses RLock, Set uses Lock, and no
// lock is held after a method returns.
package cmap
