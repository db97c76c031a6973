package chunkflow

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/chunkflow/codec"
	"github.com/hupe1980/chunkflow/internal/arena"
	"github.com/hupe1980/chunkflow/resource"
	"github.com/hupe1980/chunkflow/store"
)

const (
	opRetrieve = "retrieve"
	opStore    = "store"
)

// RetrieveChunks decodes the chunks described by descs into dst.
//
// At most chunkConcurrency chunks are processed at once; 0 or 1 processes
// them in order. The OutputSelection regions of descs must not overlap.
// Chunks that were never written read as their fill value.
//
// Invalid descriptions fail the call before any chunk is read. After that
// the first per-chunk failure is returned as a *ChunkError; chunks already
// decoded stay in dst.
func (p *Pipeline) RetrieveChunks(ctx context.Context, descs []ChunkDescription, dst Buffer, chunkConcurrency int) (err error) {
	start := time.Now()
	defer func() {
		p.metrics.RecordRetrieve(len(descs), time.Since(start), err)
		p.logger.LogRetrieve(ctx, len(descs), chunkConcurrency, err)
	}()

	a, items, err := p.prepare(ctx, descs, dst, false)
	if err != nil {
		return err
	}
	return resource.ForEach(ctx, chunkConcurrency, len(items), func(ctx context.Context, i int) error {
		return p.retrieveItem(ctx, i, items[i], a)
	})
}

func (p *Pipeline) retrieveItem(ctx context.Context, i int, it ChunksItem, a *arena.Arena) error {
	w, err := a.Window(it.Subset)
	if err != nil {
		return newChunkError(opRetrieve, i, it.Key, ErrOutOfBounds, err)
	}
	rep := it.Representation

	if !it.IsWhole() {
		dec := p.chain.PartialDecoder(codec.StoreInput{Store: it.Store, Key: it.Key}, rep)
		if err := dec.PartialDecodeInto(ctx, it.ChunkSubset, w); err != nil {
			kind := ErrDecode
			if errors.Is(err, codec.ErrInputRead) {
				kind = ErrStoreRead
			}
			return newChunkError(opRetrieve, i, it.Key, kind, err)
		}
		return nil
	}

	m, err := store.MapOrGet(ctx, it.Store, it.Key)
	if errors.Is(err, store.ErrNotFound) {
		p.metrics.RecordChunkRead(0, false)
		if err := w.Fill(rep.FillValue().Bytes()); err != nil {
			return newChunkError(opRetrieve, i, it.Key, ErrBufferSize, err)
		}
		return nil
	}
	if err != nil {
		return newChunkError(opRetrieve, i, it.Key, ErrStoreRead, err)
	}
	defer func() { _ = m.Close() }()

	p.metrics.RecordChunkRead(len(m.Bytes()), true)
	if err := p.chain.DecodeInto(m.Bytes(), rep, w); err != nil {
		return newChunkError(opRetrieve, i, it.Key, ErrDecode, err)
	}
	return nil
}

// readChunk returns the dense decoded chunk, or the fill value repeated
// over the chunk when the key is absent.
func (p *Pipeline) readChunk(ctx context.Context, i int, it ChunksItem) ([]byte, error) {
	rep := it.Representation
	encoded, err := it.Store.Get(ctx, it.Key)
	if errors.Is(err, store.ErrNotFound) {
		p.metrics.RecordChunkRead(0, false)
		return rep.FillValue().Repeat(rep.NumElements()), nil
	}
	if err != nil {
		return nil, newChunkError(opStore, i, it.Key, ErrStoreRead, err)
	}
	p.metrics.RecordChunkRead(len(encoded), true)
	decoded, err := p.chain.Decode(encoded, rep)
	if err != nil {
		return nil, newChunkError(opStore, i, it.Key, ErrDecode, err)
	}
	return decoded, nil
}
