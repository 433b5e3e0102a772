package randutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.IntN(1<<20) == b.IntN(1<<20) {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestChildIsDeterministic(t *testing.T) {
	c1 := Child(New(7))
	c2 := Child(New(7))
	assert.Equal(t, c1.IntN(1<<30), c2.IntN(1<<30))
}

func TestLockedConcurrentUse(t *testing.T) {
	l := NewLocked(New(3))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := l.IntN(6)
				if v < 0 || v >= 6 {
					t.Errorf("out of range: %d", v)
				}
			}
		}()
	}
	wg.Wait()
}
