package genarena

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// IndexSet is a set of handles backed by a 64-bit Roaring Bitmap over packed
// indices. It lets hosts track arbitrarily many handles compactly, again
// without per-type maps.
//
// Like Arena, an IndexSet is not safe for concurrent use.
type IndexSet struct {
	rb *roaring64.Bitmap
}

// NewIndexSet creates an empty IndexSet.
func NewIndexSet() *IndexSet {
	return &IndexSet{rb: roaring64.New()}
}

// Add inserts the handle into the set.
func (s *IndexSet) Add(index Index) {
	s.rb.Add(index.Pack())
}

// Remove deletes the handle from the set.
func (s *IndexSet) Remove(index Index) {
	s.rb.Remove(index.Pack())
}

// Contains reports whether the handle is in the set.
func (s *IndexSet) Contains(index Index) bool {
	return s.rb.Contains(index.Pack())
}

// Len returns the number of handles in the set.
func (s *IndexSet) Len() uint64 {
	return s.rb.GetCardinality()
}

// IsEmpty reports whether the set holds no handles.
func (s *IndexSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Clear removes all handles.
func (s *IndexSet) Clear() {
	s.rb.Clear()
}

// Clone returns a deep copy of the set.
func (s *IndexSet) Clone() *IndexSet {
	return &IndexSet{rb: s.rb.Clone()}
}

// Union adds every handle of other to the set.
func (s *IndexSet) Union(other *IndexSet) {
	s.rb.Or(other.rb)
}

// Intersect drops every handle not also present in other.
func (s *IndexSet) Intersect(other *IndexSet) {
	s.rb.And(other.rb)
}

// All returns an iterator over the handles in packed order.
func (s *IndexSet) All() iter.Seq[Index] {
	return func(yield func(Index) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(Unpack(it.Next())) {
				return
			}
		}
	}
}
