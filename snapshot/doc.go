// Package snapshot serializes arenas to a compact, self-describing binary
// format and back.
//
// A snapshot preserves the full slot structure: generations, the free-list
// chain, and retired slots. Handles taken before a save remain valid against
// the loaded arena, and stale handles remain stale.
//
// The format carries its own codec name and compression type in the header
// and a CRC32-Castagnoli checksum in the trailer, so a reader needs no
// out-of-band configuration and corruption is detected before any handle can
// observe the result.
//
// Manager layers snapshot naming, structured logging, and optional write
// throttling on top of a blobstore.Store:
//
//	m := snapshot.NewManager[Entity](blobstore.NewMemoryStore())
//	if err := m.Save(ctx, "world/0001.snap", arena); err != nil { ... }
//	restored, err := m.Load(ctx, "world/0001.snap")
package snapshot
