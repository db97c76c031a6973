package chunkflow

import (
	"context"
	"encoding/binary"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/chunkflow/store"
	"github.com/hupe1980/chunkflow/subset"
	"github.com/stretchr/testify/require"
)

const (
	bytesOnly = `[{"name":"bytes","configuration":{"endian":"little"}}]`
	bytesZstd = `[{"name":"bytes","configuration":{"endian":"little"}},{"name":"zstd","configuration":{"level":1,"checksum":true}}]`
)

var testChains = map[string]string{
	"bytes":        bytesOnly,
	"bytes-big":    `[{"name":"bytes","configuration":{"endian":"big"}}]`,
	"zstd":         bytesZstd,
	"gzip-crc32c":  `[{"name":"bytes"},{"name":"gzip","configuration":{"level":5}},{"name":"crc32c"}]`,
	"lz4":          `[{"name":"bytes"},{"name":"lz4"}]`,
	"crc32c":       `[{"name":"bytes"},{"name":"crc32c"}]`,
	"default-a2b":  `[{"name":"zstd"}]`,
	"string-names": `["bytes","gzip"]`,
}

// testBackend serves one shared MemoryStore under the "test" scheme and
// counts how often it is opened.
type testBackend struct {
	store *store.MemoryStore
	opens atomic.Int32
}

func newTestBackend() *testBackend {
	return &testBackend{store: store.NewMemoryStore()}
}

func (b *testBackend) backend() Backend {
	return b.backendFor(func() store.Store { return b.store })
}

func (b *testBackend) backendFor(open func() store.Store) Backend {
	return Backend{
		Split: func(rest string) (string, string, error) {
			return "", rest, nil
		},
		Open: func(context.Context, string) (store.Store, error) {
			b.opens.Add(1)
			return open(), nil
		},
	}
}

func newTestPipeline(t *testing.T, codecs string, optFns ...Option) (*Pipeline, *testBackend) {
	t.Helper()
	tb := newTestBackend()
	p, err := New(codecs, append([]Option{WithBackend("test", tb.backend())}, optFns...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p, tb
}

func u8Desc(key string, chunk int64, chunkSel, outSel subset.Selection) ChunkDescription {
	return ChunkDescription{
		StoreAddress:    "test://" + key,
		ChunkShape:      []uint64{uint64(chunk)},
		DataType:        "uint8",
		FillValue:       []byte{9},
		ChunkSelection:  []subset.Selection{chunkSel},
		OutputSelection: []subset.Selection{outSel},
	}
}

func i32s(vs ...int32) []byte {
	b := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	return b
}

// countingStore counts Get calls on an inner store.
type countingStore struct {
	store.Store
	mu   sync.Mutex
	gets map[string]int
}

func newCountingStore(inner store.Store) *countingStore {
	return &countingStore{Store: inner, gets: make(map[string]int)}
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	s.gets[key]++
	s.mu.Unlock()
	return s.Store.Get(ctx, key)
}

func (s *countingStore) count(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[key]
}
