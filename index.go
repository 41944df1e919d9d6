package genarena

import "fmt"

// Index is a handle to a value stored in an Arena.
//
// An Index is a plain (slot, generation) pair with no type parameter: arenas
// of different value types all hand out the same Index type, so hosts can
// store handles alongside their own data without per-type bookkeeping. The
// flip side is that an Index minted by one arena can be presented to another
// arena without detection; callers own that discipline.
//
// Indices are comparable with == (equal iff slot and generation both match)
// and usable as map keys. The zero Index never refers to a live entry, since
// generations are non-zero while a handle is valid.
type Index struct {
	slot       uint32
	generation uint32
}

// Pack encodes the Index into a single uint64 with the slot in the high 32
// bits and the generation in the low 32. Useful for compact storage of
// handles, see IndexSet.
func (i Index) Pack() uint64 {
	return uint64(i.slot)<<32 | uint64(i.generation)
}

// Unpack is the inverse of Index.Pack.
func Unpack(raw uint64) Index {
	return Index{slot: uint32(raw >> 32), generation: uint32(raw)}
}

// String returns a debug representation in the form "Index(slot:generation)".
func (i Index) String() string {
	return fmt.Sprintf("Index(%d:%d)", i.slot, i.generation)
}
