package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a, b := New(42), New(42)
	for range 100 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestNeighbouringSeedsDiverge(t *testing.T) {
	assert.NotEqual(t, New(1).Uint64(), New(2).Uint64())
}

func TestDerive(t *testing.T) {
	assert.Equal(t, Derive(7, 3), Derive(7, 3))
	seen := map[int64]bool{}
	for n := range 64 {
		seen[Derive(7, n)] = true
	}
	assert.Len(t, seen, 64)
}
