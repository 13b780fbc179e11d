package vrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDeterminism(t *testing.T) {
	a := NewSource(7)
	b := NewSource(7)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestSourceChildDeterminism(t *testing.T) {
	parent1 := NewSource(99)
	parent2 := NewSource(99)

	child1 := parent1.Child(3)
	child2 := parent2.Child(3)

	for i := 0; i < 10; i++ {
		assert.Equal(t, child1.Intn(1000), child2.Intn(1000))
	}
}

func TestSourceChildDiffersByIndex(t *testing.T) {
	parent := NewSource(5)
	a := parent.Child(0)
	b := parent.Child(1)

	same := true
	for i := 0; i < 20; i++ {
		if a.Intn(1_000_000) != b.Intn(1_000_000) {
			same = false
			break
		}
	}
	assert.False(t, same, "children at different indices should diverge")
}

func TestSourcePerm(t *testing.T) {
	s := NewSource(1)
	perm := s.Perm(10)
	assert.Len(t, perm, 10)

	seen := make(map[int]bool, 10)
	for _, v := range perm {
		assert.False(t, seen[v], "duplicate index %d in permutation", v)
		seen[v] = true
	}
}
