package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRNGDeterminism(t *testing.T) {
	r1 := NewRNG(42)
	r2 := NewRNG(42)

	for range 100 {
		assert.Equal(t, r1.Uint64(), r2.Uint64())
	}
}

func TestRNGReset(t *testing.T) {
	r := NewRNG(7)
	first := r.Uint64()
	r.Uint64()
	r.Reset()
	assert.Equal(t, first, r.Uint64())
	assert.Equal(t, int64(7), r.Seed())
}

func TestRNGString(t *testing.T) {
	r := NewRNG(1)
	s := r.String(32)
	assert.Len(t, s, 32)
	for _, c := range s {
		assert.Contains(t, payloadAlphabet, string(c))
	}
}

func TestRNGPerm(t *testing.T) {
	r := NewRNG(3)
	p := r.Perm(16)
	seen := make(map[int]bool, 16)
	for _, v := range p {
		assert.False(t, seen[v])
		seen[v] = true
	}
	assert.Len(t, seen, 16)
}
