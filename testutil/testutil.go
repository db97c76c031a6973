package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/chunkflow/subset"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// FillBytes fills dst with random bytes.
// Locks only once per call (preferred over calling Intn in a loop).
func (r *RNG) FillBytes(dst []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.rand.Read(dst)
}

// Bytes returns n random bytes.
func (r *RNG) Bytes(n int) []byte {
	b := make([]byte, n)
	r.FillBytes(b)
	return b
}

// Compressible returns n bytes drawn from a small alphabet so that
// compression codecs have something to work with.
func (r *RNG) Compressible(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.rand.Intn(4))
	}
	return b
}

// Shape returns a random shape with dims axes of 1 to maxExtent elements.
func (r *RNG) Shape(dims int, maxExtent uint64) []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	shape := make([]uint64, dims)
	for i := range shape {
		shape[i] = 1 + uint64(r.rand.Int63n(int64(maxExtent)))
	}
	return shape
}

// SubsetOf returns a random non-empty region inside shape.
func (r *RNG) SubsetOf(shape []uint64) subset.ArraySubset {
	r.mu.Lock()
	defer r.mu.Unlock()
	ranges := make([]subset.Range, len(shape))
	for i, e := range shape {
		start := uint64(r.rand.Int63n(int64(e)))
		stop := start + 1 + uint64(r.rand.Int63n(int64(e-start)))
		ranges[i] = subset.Range{Start: start, Stop: stop}
	}
	return subset.New(ranges...)
}

// Iota returns n bytes counting up from start, wrapping at 256.
func Iota(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}
