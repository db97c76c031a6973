// Package chunkflow moves regions of chunked N-dimensional arrays between
// caller-owned byte buffers and key/value chunk stores.
//
// A Pipeline is built once from a zarr v3 codec chain and then serves any
// number of RetrieveChunks and StoreChunks calls. Each call receives one
// ChunkDescription per chunk it touches plus a dense row-major Buffer:
//
//	p, _ := chunkflow.New(`[{"name":"bytes"},{"name":"zstd","configuration":{"level":3}}]`)
//	defer p.Close()
//
//	dst := chunkflow.NewBuffer([]uint64{10}, 4)
//	err := p.RetrieveChunks(ctx, []chunkflow.ChunkDescription{{
//	    StoreAddress:    "file:///data/arr/c/0",
//	    ChunkShape:      []uint64{5},
//	    DataType:        "float32",
//	    FillValue:       make([]byte, 4),
//	    ChunkSelection:  []subset.Selection{subset.SliceAll()},
//	    OutputSelection: []subset.Selection{subset.SliceRange(0, 5)},
//	}, ...}, dst, 4)
//
// Array and the grid package build descriptions from array-level
// selections for regularly chunked arrays.
//
// # Concurrency
//
// Two budgets apply. The chunk concurrency passed to each call bounds how
// many chunks are processed at once; WithConcurrentTarget bounds the
// goroutines a codec uses for one chunk. They multiply.
//
// Chunks of one call write to disjoint regions of the buffer without
// locking, so the OutputSelection regions of one call must not overlap and
// no two descriptions may address the same key.
//
// # Stores
//
// Addresses select a backend by scheme: file://, memory://, memfs://,
// s3://bucket/, minio://endpoint/bucket/ and minio+http://endpoint/bucket/.
// WithBackend
// registers more. A pipeline opens a single store, on first use, and
// rejects addresses of another backend with ErrBackendMismatch.
//
// # Fill values
//
// A chunk that was never written reads as its fill value. StoreChunks
// erases a chunk instead of writing it when it would hold only the fill
// value, unless WithStoreEmptyChunks is set.
package chunkflow
