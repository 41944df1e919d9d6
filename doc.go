// Package genarena provides a generational array: a container that hands out
// stable, untyped handles to stored values and detects use of a handle after
// its slot has been removed and reused.
//
// # Quick Start
//
//	arena := genarena.New[string]()
//	idx := arena.Insert("hello")
//
//	v, ok := arena.Get(idx)   // "hello", true
//	arena.Remove(idx)         // "hello", true
//	_, ok = arena.Get(idx)    // "", false: the handle is stale now
//
// Values live in a growable slot array. Removing a value vacates its slot and
// links it into an embedded free-list; the next insert reuses the slot under a
// new generation, so handles to the previous occupant keep failing validation
// instead of silently aliasing the new value.
//
// # Handles
//
// Index is a plain (slot, generation) pair without a type parameter. Arenas of
// every value type hand out the same Index type, so a host can keep handles in
// one place without per-type secondary maps. The trade-off: an Index from one
// arena presented to a different arena is not detected. See Index.
//
// # Concurrency Model
//
// An Arena is owned by a single goroutine. No operation may run concurrently
// with another on the same instance; wrap the arena in a mutex of your own if
// you need shared access. Operations never block and never perform I/O.
//
// # Snapshots
//
// The snapshot subpackage serializes an arena to a self-describing binary
// format (checksummed, optionally compressed) and stores it through the
// blobstore subpackage (local disk, memory, MinIO, S3). Reloaded arenas keep
// every outstanding handle valid and every stale handle stale.
package genarena
