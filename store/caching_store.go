package store

import (
	"context"
	"hash/maphash"
	"slices"
	"sync"

	"github.com/hupe1980/chunkflow/internal/cache"
)

const generationStripes = 64

// generation counts the writes to the keys hashed onto one stripe.
type generation struct {
	mu sync.Mutex
	n  uint64
}

// CachingStore keeps recently read values of another store in a
// ChunkCache. Set and Erase invalidate the key before and after reaching
// the inner store, and a read only populates the cache when no write to
// its key started since the read began, so a reader never sees a value
// older than the last write made through this store.
type CachingStore struct {
	inner Store
	cache cache.ChunkCache
	name  string

	seed maphash.Seed
	gens [generationStripes]generation
}

// NewCachingStore wraps inner. name separates this store's entries from
// other stores sharing the same cache.
func NewCachingStore(inner Store, c cache.ChunkCache, name string) *CachingStore {
	return &CachingStore{inner: inner, cache: c, name: name, seed: maphash.MakeSeed()}
}

func (s *CachingStore) key(k string) cache.Key {
	return cache.Key{Store: s.name, Chunk: k}
}

func (s *CachingStore) stripe(key string) *generation {
	return &s.gens[maphash.String(s.seed, key)%generationStripes]
}

func (s *CachingStore) generation(key string) uint64 {
	g := s.stripe(key)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}

// invalidate drops key and fences out reads that started before.
func (s *CachingStore) invalidate(key string) {
	g := s.stripe(key)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	s.cache.Remove(s.key(key))
}

// fill caches b unless key was written since gen was observed.
func (s *CachingStore) fill(key string, gen uint64, b []byte) {
	g := s.stripe(key)
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.n == gen {
		s.cache.Put(s.key(key), b)
	}
}

// Inner returns the wrapped store.
func (s *CachingStore) Inner() Store { return s.inner }

// Get serves key from the cache or reads it through.
func (s *CachingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if b, ok := s.cache.Get(s.key(key)); ok {
		return slices.Clone(b), nil
	}
	gen := s.generation(key)
	b, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	s.fill(key, gen, slices.Clone(b))
	return b, nil
}

// GetRange serves a range of a cached value, or delegates to the inner
// store without populating the cache.
func (s *CachingStore) GetRange(ctx context.Context, key string, off, length int64) ([]byte, error) {
	if b, ok := s.cache.Get(s.key(key)); ok {
		return clip(b, off, length), nil
	}
	return ReadRange(ctx, s.inner, key, off, length)
}

// Size returns the length of the value under key.
func (s *CachingStore) Size(ctx context.Context, key string) (int64, error) {
	if b, ok := s.cache.Get(s.key(key)); ok {
		return int64(len(b)), nil
	}
	if rg, ok := s.inner.(RangeGetter); ok {
		return rg.Size(ctx, key)
	}
	b, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// Set invalidates key and writes through.
func (s *CachingStore) Set(ctx context.Context, key string, value []byte) error {
	s.invalidate(key)
	defer s.invalidate(key)
	return s.inner.Set(ctx, key, value)
}

// Erase invalidates key and erases it from the inner store.
func (s *CachingStore) Erase(ctx context.Context, key string) error {
	s.invalidate(key)
	defer s.invalidate(key)
	return s.inner.Erase(ctx, key)
}

// List delegates to the inner store when it is a Lister.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	if l, ok := s.inner.(Lister); ok {
		return l.List(ctx, prefix)
	}
	return nil, nil
}

var (
	_ Store       = (*CachingStore)(nil)
	_ RangeGetter = (*CachingStore)(nil)
)
