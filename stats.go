package genarena

// Stats tracks arena usage counters.
//
// Note on semantics:
//   - Inserts/Removes: cumulative operation counts
//   - Reuses: inserts served from the free-list
//   - Grows: inserts that appended a new slot
//   - RetiredSlots: slots permanently withdrawn after generation exhaustion
type Stats struct {
	Inserts      uint64
	Removes      uint64
	Reuses       uint64
	Grows        uint64
	RetiredSlots uint64
}

// Stats returns a copy of the arena's usage counters.
func (a *Arena[T]) Stats() Stats {
	return a.stats
}
