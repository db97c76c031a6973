package chunkflow

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/chunkflow/dtype"
	"github.com/hupe1980/chunkflow/internal/arena"
	"github.com/hupe1980/chunkflow/resource"
	"github.com/hupe1980/chunkflow/subset"
)

// StoreChunks encodes the regions of src described by descs into their
// chunks.
//
// A scalar src (empty Shape) is broadcast over every chunk selection.
// Chunks only partly covered by their selection are read, merged and
// rewritten. A chunk that ends up holding only its fill value is erased
// instead of written, unless WithStoreEmptyChunks is set.
//
// Invalid descriptions fail the call before any chunk is touched. After
// that the first per-chunk failure is returned as a *ChunkError; there is
// no rollback of chunks already written.
func (p *Pipeline) StoreChunks(ctx context.Context, descs []ChunkDescription, src Buffer, chunkConcurrency int) (err error) {
	var erased atomic.Int64
	start := time.Now()
	defer func() {
		p.metrics.RecordStore(len(descs), time.Since(start), err)
		p.logger.LogStore(ctx, len(descs), int(erased.Load()), chunkConcurrency, err)
	}()

	a, items, err := p.prepare(ctx, descs, src, true)
	if err != nil {
		return err
	}
	return resource.ForEach(ctx, chunkConcurrency, len(items), func(ctx context.Context, i int) error {
		wasErased, err := p.storeItem(ctx, i, items[i], a)
		if wasErased {
			erased.Add(1)
		}
		return err
	})
}

func (p *Pipeline) storeItem(ctx context.Context, i int, it ChunksItem, a *arena.Arena) (bool, error) {
	w, err := a.Window(it.Subset)
	if err != nil {
		return false, newChunkError(opStore, i, it.Key, ErrOutOfBounds, err)
	}
	rep := it.Representation
	storeEmpty := p.opts.codec.StoreEmptyChunks

	value, err := w.Read()
	if err != nil {
		return false, newChunkError(opStore, i, it.Key, ErrBufferSize, err)
	}
	if it.IsBroadcast() && it.ChunkSubset.NumElements() != 1 {
		if it.IsWhole() && rep.FillValue().Equal(value) && !storeEmpty {
			return true, p.erase(ctx, i, it)
		}
		value = dtype.NewFillValue(value).Repeat(it.ChunkSubset.NumElements())
	}

	chunk := value
	if !it.IsWhole() {
		n := int64(rep.ByteLen())
		if err := p.rc.Reserve(ctx, n); err != nil {
			return false, &ChunkError{Op: opStore, Key: it.Key, Index: i, cause: err}
		}
		defer p.rc.Release(n)

		if chunk, err = p.readChunk(ctx, i, it); err != nil {
			return false, err
		}
		if err := subset.Scatter(chunk, rep.Shape(), it.ChunkSubset, value, rep.ElementSize()); err != nil {
			return false, newChunkError(opStore, i, it.Key, ErrOutOfBounds, err)
		}
	}

	if !storeEmpty && rep.IsFill(chunk) {
		return true, p.erase(ctx, i, it)
	}

	encoded, err := p.chain.Encode(chunk, rep)
	if err != nil {
		return false, newChunkError(opStore, i, it.Key, ErrEncode, err)
	}
	if err := it.Store.Set(ctx, it.Key, encoded); err != nil {
		return false, newChunkError(opStore, i, it.Key, ErrStoreWrite, err)
	}
	p.metrics.RecordChunkWrite(len(encoded))
	return false, nil
}

func (p *Pipeline) erase(ctx context.Context, i int, it ChunksItem) error {
	if err := it.Store.Erase(ctx, it.Key); err != nil {
		return newChunkError(opStore, i, it.Key, ErrStoreWrite, err)
	}
	p.metrics.RecordChunkErase()
	return nil
}
