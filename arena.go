package genarena

import "math"

const (
	// noSlot terminates the free-list. It also bounds the number of slots an
	// arena can address.
	noSlot = math.MaxUint32

	// initialGeneration is assigned to a slot's first occupant. Generations
	// are non-zero while a handle is valid, so the zero Index never matches.
	initialGeneration = 1

	// maxGeneration is the last generation a slot may hand out. A slot whose
	// occupant carried maxGeneration is retired on removal instead of being
	// returned to the free-list.
	maxGeneration = math.MaxUint32
)

// slot is a tagged variant: occupied (value + generation of the current
// occupant) or vacant (generation for the next occupant + free-list link).
// nextFree is only meaningful while the slot is vacant and on the free-list.
type slot[T any] struct {
	value      T
	generation uint32
	nextFree   uint32
	occupied   bool
}

// Arena is a generational array. It stores values of type T in a growable
// slot sequence and hands out Index handles that stay checkable for validity
// after their slot has been vacated and reused.
//
// Arena is not safe for concurrent use. See the package documentation for the
// ownership model.
type Arena[T any] struct {
	slots    []slot[T]
	freeHead uint32
	live     int
	stats    Stats
}

// New creates an empty Arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{freeHead: noSlot}
}

// NewWithCapacity creates an empty Arena with room for capacity values before
// the backing array has to grow.
func NewWithCapacity[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		slots:    make([]slot[T], 0, capacity),
		freeHead: noSlot,
	}
}

// Insert stores value and returns a handle to it. The handle is valid until a
// matching Remove. Insert always succeeds; it is O(1) amortized.
func (a *Arena[T]) Insert(value T) Index {
	a.stats.Inserts++

	if a.freeHead != noSlot {
		i := a.freeHead
		s := &a.slots[i]
		a.freeHead = s.nextFree
		s.value = value
		s.nextFree = noSlot
		s.occupied = true
		a.live++
		a.stats.Reuses++
		return Index{slot: i, generation: s.generation}
	}

	if uint64(len(a.slots)) >= noSlot {
		panic("genarena: slot capacity exhausted")
	}
	a.slots = append(a.slots, slot[T]{
		value:      value,
		generation: initialGeneration,
		nextFree:   noSlot,
		occupied:   true,
	})
	a.live++
	a.stats.Grows++
	return Index{slot: uint32(len(a.slots) - 1), generation: initialGeneration}
}

// Get returns the value index refers to. The second return is false when the
// handle is stale or was never issued by this arena: out-of-range slot,
// vacant slot, or generation mismatch. A false result is the ordinary
// representation of a stale handle, not a failure.
func (a *Arena[T]) Get(index Index) (T, bool) {
	if p := a.GetRef(index); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// GetRef returns a pointer to the stored value for in-place mutation, or nil
// when the handle is invalid. The pointer is only good until the next
// mutation of the arena.
func (a *Arena[T]) GetRef(index Index) *T {
	if uint64(index.slot) >= uint64(len(a.slots)) {
		return nil
	}
	s := &a.slots[index.slot]
	if !s.occupied || s.generation != index.generation {
		return nil
	}
	return &s.value
}

// Contains reports whether index refers to a live entry.
func (a *Arena[T]) Contains(index Index) bool {
	return a.GetRef(index) != nil
}

// Remove takes the value index refers to out of the arena and vacates its
// slot. It returns false (and changes nothing) when the handle is invalid, so
// removing twice through the same handle is harmless.
//
// The vacated slot carries the generation its next occupant will receive. If
// that generation would wrap around, the slot is retired instead: it is never
// linked back into the free-list, trading a slot of capacity for the
// guarantee that no future handle can alias a past occupant.
func (a *Arena[T]) Remove(index Index) (T, bool) {
	var zero T
	if uint64(index.slot) >= uint64(len(a.slots)) {
		return zero, false
	}
	s := &a.slots[index.slot]
	if !s.occupied || s.generation != index.generation {
		return zero, false
	}

	value := s.value
	s.value = zero
	s.occupied = false
	a.live--
	a.stats.Removes++

	if s.generation == maxGeneration {
		// Generation counter exhausted: retire the slot permanently.
		s.nextFree = noSlot
		a.stats.RetiredSlots++
		return value, true
	}

	s.generation++
	s.nextFree = a.freeHead
	a.freeHead = index.slot
	return value, true
}

// Len returns the number of live entries.
func (a *Arena[T]) Len() int { return a.live }

// IsEmpty reports whether the arena holds no live entries.
func (a *Arena[T]) IsEmpty() bool { return a.live == 0 }

// Cap returns the number of slots the arena can hold before the backing
// array has to grow again.
func (a *Arena[T]) Cap() int { return cap(a.slots) }
