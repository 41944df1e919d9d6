package genarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexSet(t *testing.T) {
	t.Run("add remove contains", func(t *testing.T) {
		a := New[string]()
		s := NewIndexSet()

		ia := a.Insert("a")
		ib := a.Insert("b")
		s.Add(ia)
		s.Add(ib)

		assert.True(t, s.Contains(ia))
		assert.True(t, s.Contains(ib))
		assert.Equal(t, uint64(2), s.Len())

		s.Remove(ia)
		assert.False(t, s.Contains(ia))
		assert.Equal(t, uint64(1), s.Len())
	})

	t.Run("distinguishes generations of the same slot", func(t *testing.T) {
		a := New[int]()
		s := NewIndexSet()

		old := a.Insert(1)
		s.Add(old)
		_, ok := a.Remove(old)
		require.True(t, ok)

		fresh := a.Insert(2)
		require.Equal(t, old.slot, fresh.slot)

		assert.True(t, s.Contains(old))
		assert.False(t, s.Contains(fresh))
	})

	t.Run("add is idempotent", func(t *testing.T) {
		s := NewIndexSet()
		idx := Index{slot: 1, generation: 1}
		s.Add(idx)
		s.Add(idx)
		assert.Equal(t, uint64(1), s.Len())
	})

	t.Run("clear and empty", func(t *testing.T) {
		s := NewIndexSet()
		assert.True(t, s.IsEmpty())
		s.Add(Index{slot: 0, generation: 1})
		s.Clear()
		assert.True(t, s.IsEmpty())
	})

	t.Run("clone is independent", func(t *testing.T) {
		s := NewIndexSet()
		idx := Index{slot: 5, generation: 2}
		s.Add(idx)

		c := s.Clone()
		c.Remove(idx)
		assert.True(t, s.Contains(idx))
		assert.False(t, c.Contains(idx))
	})

	t.Run("union and intersect", func(t *testing.T) {
		i1 := Index{slot: 1, generation: 1}
		i2 := Index{slot: 2, generation: 1}
		i3 := Index{slot: 3, generation: 1}

		s1 := NewIndexSet()
		s1.Add(i1)
		s1.Add(i2)
		s2 := NewIndexSet()
		s2.Add(i2)
		s2.Add(i3)

		u := s1.Clone()
		u.Union(s2)
		assert.Equal(t, uint64(3), u.Len())

		s1.Intersect(s2)
		assert.Equal(t, uint64(1), s1.Len())
		assert.True(t, s1.Contains(i2))
	})

	t.Run("all iterates in packed order", func(t *testing.T) {
		s := NewIndexSet()
		indices := []Index{
			{slot: 0, generation: 3},
			{slot: 1, generation: 1},
			{slot: 2, generation: 2},
		}
		// Insert out of order; iteration sorts by packed value.
		s.Add(indices[2])
		s.Add(indices[0])
		s.Add(indices[1])

		var got []Index
		for idx := range s.All() {
			got = append(got, idx)
		}
		assert.Equal(t, indices, got)
	})

	t.Run("tracks live arena handles", func(t *testing.T) {
		a := New[int]()
		s := NewIndexSet()
		for i := range 100 {
			s.Add(a.Insert(i))
		}
		assert.Equal(t, uint64(a.Len()), s.Len())

		for idx := range a.All() {
			assert.True(t, s.Contains(idx))
		}
	})
}
