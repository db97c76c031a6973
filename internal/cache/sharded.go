package cache

import (
	"hash/maphash"

	"github.com/hupe1980/chunkflow/resource"
)

const shardCount = 16

// Sharded splits its capacity over independently locked LRU shards so
// that concurrent chunk work items rarely contend.
type Sharded struct {
	seed   maphash.Seed
	shards [shardCount]*LRU
}

// NewSharded creates a cache of capacity bytes in total.
func NewSharded(capacity int64, rc *resource.Controller) *Sharded {
	s := &Sharded{seed: maphash.MakeSeed()}
	per := max(capacity/shardCount, 1)
	for i := range s.shards {
		s.shards[i] = NewLRU(per, rc)
	}
	return s
}

func (s *Sharded) shard(key Key) *LRU {
	var h maphash.Hash
	h.SetSeed(s.seed)
	_, _ = h.WriteString(key.Store)
	_ = h.WriteByte('/')
	_, _ = h.WriteString(key.Chunk)
	return s.shards[h.Sum64()%shardCount]
}

func (s *Sharded) Get(key Key) ([]byte, bool) { return s.shard(key).Get(key) }
func (s *Sharded) Put(key Key, b []byte)      { s.shard(key).Put(key, b) }
func (s *Sharded) Remove(key Key)             { s.shard(key).Remove(key) }

func (s *Sharded) Purge(store string) {
	for _, sh := range s.shards {
		sh.Purge(store)
	}
}

// Stats sums the shard statistics.
func (s *Sharded) Stats() Stats {
	var st Stats
	for _, sh := range s.shards {
		st = st.add(sh.Stats())
	}
	return st
}

func (s *Sharded) Close() error {
	for _, sh := range s.shards {
		_ = sh.Close()
	}
	return nil
}

var (
	_ ChunkCache = (*LRU)(nil)
	_ ChunkCache = (*Sharded)(nil)
)
