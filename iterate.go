package genarena

import "iter"

// All returns an iterator over (Index, value) pairs for every live entry, in
// slot order. The sequence is finite and lazy.
//
// Mutating the arena while iterating is undefined behavior: the iterator does
// not snapshot the slots and makes no attempt to detect concurrent mutation.
func (a *Arena[T]) All() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Index{slot: uint32(i), generation: s.generation}, s.value) {
				return
			}
		}
	}
}

// Refs is like All but yields pointers, allowing values to be updated in
// place during iteration. Pointers are only good until the next mutation of
// the arena; the same mutation-during-iteration caveat as All applies.
func (a *Arena[T]) Refs() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		for i := range a.slots {
			s := &a.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Index{slot: uint32(i), generation: s.generation}, &s.value) {
				return
			}
		}
	}
}
