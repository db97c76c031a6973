package chunkflow

import (
	"context"
	"fmt"

	"github.com/hupe1980/chunkflow/codec"
	"github.com/hupe1980/chunkflow/dtype"
	"github.com/hupe1980/chunkflow/internal/conv"
	"github.com/hupe1980/chunkflow/store"
	"github.com/hupe1980/chunkflow/subset"
)

// ChunkRepresentation is the decoded form of a chunk: shape, data type and
// fill value.
type ChunkRepresentation = codec.ChunkRepresentation

// ChunkDescription addresses one chunk and the region of the caller's
// buffer it exchanges data with.
type ChunkDescription struct {
	// StoreAddress is scheme://root/key, e.g. file:///data/arr/c/0/1.
	StoreAddress string

	// ChunkShape is the full shape of the chunk. Every axis must be > 0.
	ChunkShape []uint64

	// DataType is a zarr v3 name ("float32") or a NumPy typestr ("<f4").
	DataType string

	// FillValue is one element. Empty means all zero bytes.
	FillValue []byte

	// ChunkSelection selects the region inside the chunk. Missing axes
	// select everything.
	ChunkSelection []subset.Selection

	// OutputSelection selects the region inside the caller's buffer.
	OutputSelection []subset.Selection
}

// ChunksItem is a resolved ChunkDescription.
type ChunksItem struct {
	Store          store.Store
	Key            string
	ChunkSubset    subset.ArraySubset
	Subset         subset.ArraySubset
	Representation ChunkRepresentation
}

// IsWhole reports whether the item covers its entire chunk.
func (it ChunksItem) IsWhole() bool {
	return it.ChunkSubset.IsWhole(it.Representation.Shape())
}

// IsBroadcast reports whether the item spreads one buffer element over its
// chunk subset.
func (it ChunksItem) IsBroadcast() bool {
	return it.Subset.Dimensionality() == 0
}

type validated struct {
	rep         ChunkRepresentation
	chunkSubset subset.ArraySubset
	subset      subset.ArraySubset
}

// validateDescription checks d against a buffer of the given shape without
// touching any store.
func validateDescription(d ChunkDescription, shape []uint64, elemSize int, allowBroadcast bool) (validated, error) {
	dt, err := dtype.Parse(d.DataType)
	if err != nil {
		return validated{}, err
	}
	if dt.Size() != elemSize {
		return validated{}, fmt.Errorf("%w: %s has %d-byte elements, buffer has %d", ErrBufferSize, dt, dt.Size(), elemSize)
	}
	fill, err := dtype.NewFillValueFor(dt, d.FillValue)
	if err != nil {
		return validated{}, err
	}
	if _, err := conv.ByteLen(d.ChunkShape, dt.Size()); err != nil {
		return validated{}, fmt.Errorf("%w: %v: %w", ErrInvalidChunkShape, d.ChunkShape, err)
	}
	rep, err := codec.NewChunkRepresentation(d.ChunkShape, dt, fill)
	if err != nil {
		return validated{}, err
	}
	chunkSubset, err := subset.FromSelections(d.ChunkSelection, rep.Shape())
	if err != nil {
		return validated{}, fmt.Errorf("chunk selection: %w", err)
	}
	out, err := subset.FromSelections(d.OutputSelection, shape)
	if err != nil {
		return validated{}, fmt.Errorf("output selection: %w", err)
	}
	if out.NumElements() != chunkSubset.NumElements() && !(allowBroadcast && out.Dimensionality() == 0) {
		return validated{}, fmt.Errorf("%w: output %s has %d elements, chunk %s has %d",
			ErrInvalidChunkShape, out, out.NumElements(), chunkSubset, chunkSubset.NumElements())
	}
	return validated{rep: rep, chunkSubset: chunkSubset, subset: out}, nil
}

// buildItems validates every description before resolving any store, so a
// malformed request fails without I/O.
func (p *Pipeline) buildItems(ctx context.Context, descs []ChunkDescription, shape []uint64, elemSize int, allowBroadcast bool) ([]ChunksItem, error) {
	vs := make([]validated, len(descs))
	for i, d := range descs {
		v, err := validateDescription(d, shape, elemSize, allowBroadcast)
		if err != nil {
			return nil, &DescriptionError{Index: i, cause: err}
		}
		if _, _, _, _, err := p.handles.parse(d.StoreAddress); err != nil {
			return nil, &DescriptionError{Index: i, cause: err}
		}
		vs[i] = v
	}

	items := make([]ChunksItem, len(descs))
	for i, d := range descs {
		s, key, err := p.handles.resolve(ctx, d.StoreAddress)
		if err != nil {
			return nil, &DescriptionError{Index: i, cause: err}
		}
		items[i] = ChunksItem{
			Store:          s,
			Key:            key,
			ChunkSubset:    vs[i].chunkSubset,
			Subset:         vs[i].subset,
			Representation: vs[i].rep,
		}
	}
	return items, nil
}

// elementSize returns the buffer's element width, falling back to the
// first description's data type.
func elementSize(b Buffer, descs []ChunkDescription) (int, error) {
	if b.ElementSize > 0 || len(descs) == 0 {
		return b.ElementSize, nil
	}
	dt, err := dtype.Parse(descs[0].DataType)
	if err != nil {
		return 0, &DescriptionError{Index: 0, cause: err}
	}
	return dt.Size(), nil
}
