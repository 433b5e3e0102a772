package randutil

import (
	rand "math/rand/v2"
	"sync"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source is the uniform integer generator used for dice, letter draws and bot
// answers. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromClock returns a generator seeded from the wall clock along with the
// seed used, so callers can log it and replay a run.
func NewFromClock() (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	return New(seed), seed
}

// Locked wraps a Source so it can be shared between goroutines.
type Locked struct {
	mu  sync.Mutex
	src Source
}

// NewLocked returns a goroutine-safe view of src.
func NewLocked(src Source) *Locked {
	return &Locked{src: src}
}

// IntN implements Source.
func (l *Locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// Child derives an independent deterministic generator from src. Each match
// gets its own child so parallel matches never contend on one RNG.
func Child(src Source) *rand.Rand {
	hi := int64(src.IntN(1 << 30))
	lo := int64(src.IntN(1 << 30))
	return New(hi<<30 | lo)
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
