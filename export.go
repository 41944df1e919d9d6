package genarena

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManySlots is returned when an imported dump exceeds the
	// addressable slot range.
	ErrTooManySlots = errors.New("genarena: too many slots")
	// ErrInvalidFreeList is returned when an imported dump's free-list does
	// not form a simple chain over exactly the vacant slots.
	ErrInvalidFreeList = errors.New("genarena: invalid free list")
	// ErrInvalidRecord is returned when an imported slot record is
	// internally inconsistent.
	ErrInvalidRecord = errors.New("genarena: invalid slot record")
)

// SlotState classifies a slot in an exported dump.
type SlotState uint8

const (
	// SlotFree is a vacant slot reachable from the free-list head.
	SlotFree SlotState = iota
	// SlotOccupied is a live entry.
	SlotOccupied
	// SlotRetired is a vacant slot permanently withdrawn from reuse after
	// its generation counter saturated.
	SlotRetired
)

// SlotRecord is one slot of an exported arena. Value is only meaningful for
// SlotOccupied records, NextFree only for SlotFree records (NoSlot terminates
// the chain).
type SlotRecord[T any] struct {
	State      SlotState
	Generation uint32
	NextFree   uint32
	Value      T
}

// NoSlot is the free-list terminator used in exported slot records.
const NoSlot uint32 = noSlot

// ExportSlots returns a structural dump of the arena: one record per slot in
// slot order, plus the free-list head. The dump is faithful enough that an
// arena rebuilt from it keeps every outstanding handle valid and every stale
// handle stale. The snapshot subpackage serializes these records.
func (a *Arena[T]) ExportSlots() ([]SlotRecord[T], uint32) {
	// Walk the free-list once so vacant slots off the chain can be classified
	// as retired.
	onFreeList := make(map[uint32]struct{})
	for i := a.freeHead; i != noSlot; i = a.slots[i].nextFree {
		onFreeList[i] = struct{}{}
	}

	records := make([]SlotRecord[T], len(a.slots))
	for i := range a.slots {
		s := &a.slots[i]
		rec := SlotRecord[T]{Generation: s.generation, NextFree: NoSlot}
		switch {
		case s.occupied:
			rec.State = SlotOccupied
			rec.Value = s.value
		default:
			if _, ok := onFreeList[uint32(i)]; ok {
				rec.State = SlotFree
				rec.NextFree = s.nextFree
			} else {
				rec.State = SlotRetired
			}
		}
		records[i] = rec
	}
	return records, a.freeHead
}

// FromSlots rebuilds an arena from an exported dump, validating the free-list
// invariants: every slot reachable from freeHead must be a SlotFree record,
// each must appear on the chain exactly once, the chain must cover all
// SlotFree records, and it must terminate at NoSlot.
func FromSlots[T any](records []SlotRecord[T], freeHead uint32) (*Arena[T], error) {
	if uint64(len(records)) >= noSlot {
		return nil, ErrTooManySlots
	}

	a := &Arena[T]{
		slots:    make([]slot[T], len(records)),
		freeHead: freeHead,
	}

	freeCount := 0
	for i, rec := range records {
		s := &a.slots[i]
		s.generation = rec.Generation
		s.nextFree = noSlot
		switch rec.State {
		case SlotOccupied:
			if rec.Generation == 0 {
				return nil, fmt.Errorf("%w: slot %d occupied with zero generation", ErrInvalidRecord, i)
			}
			s.value = rec.Value
			s.occupied = true
			a.live++
		case SlotFree:
			// A free slot's generation goes to its next occupant verbatim, so
			// zero here would mint handles that collide with the zero Index.
			if rec.Generation == 0 {
				return nil, fmt.Errorf("%w: slot %d free with zero generation", ErrInvalidRecord, i)
			}
			s.nextFree = rec.NextFree
			freeCount++
		case SlotRetired:
			a.stats.RetiredSlots++
		default:
			return nil, fmt.Errorf("%w: slot %d has unknown state %d", ErrInvalidRecord, i, rec.State)
		}
	}

	// The chain must visit exactly the vacant slots, each once.
	visited := 0
	seen := make(map[uint32]struct{}, freeCount)
	for i := freeHead; i != noSlot; i = a.slots[i].nextFree {
		if uint64(i) >= uint64(len(records)) {
			return nil, fmt.Errorf("%w: link to out-of-range slot %d", ErrInvalidFreeList, i)
		}
		if records[i].State != SlotFree {
			return nil, fmt.Errorf("%w: slot %d on chain is not free", ErrInvalidFreeList, i)
		}
		if _, dup := seen[i]; dup {
			return nil, fmt.Errorf("%w: cycle through slot %d", ErrInvalidFreeList, i)
		}
		seen[i] = struct{}{}
		visited++
	}
	if visited != freeCount {
		return nil, fmt.Errorf("%w: chain covers %d of %d free slots", ErrInvalidFreeList, visited, freeCount)
	}

	return a, nil
}
