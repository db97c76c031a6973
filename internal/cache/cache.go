package cache

// Key identifies an encoded chunk. Store names the backend root so that
// one cache can serve several stores.
type Key struct {
	Store string
	Chunk string
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Bytes     int64
	Entries   int
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Hits:      s.Hits + o.Hits,
		Misses:    s.Misses + o.Misses,
		Evictions: s.Evictions + o.Evictions,
		Bytes:     s.Bytes + o.Bytes,
		Entries:   s.Entries + o.Entries,
	}
}

// ChunkCache holds encoded chunks. Cached slices are shared and must not
// be modified by callers or by the code that put them.
type ChunkCache interface {
	Get(key Key) ([]byte, bool)
	Put(key Key, b []byte)
	Remove(key Key)
	// Purge drops every chunk of one store.
	Purge(store string)
	Stats() Stats
	Close() error
}
