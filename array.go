package chunkflow

import (
	"context"
	"strings"

	"github.com/hupe1980/chunkflow/dtype"
	"github.com/hupe1980/chunkflow/grid"
	"github.com/hupe1980/chunkflow/subset"
)

// Array describes a regularly chunked array stored under one address.
// It turns array-level selections into chunk descriptions.
type Array struct {
	// Address is the array root, e.g. file:///data/temperature.
	Address string
	Grid    *grid.Regular
	Keys    grid.KeyEncoding

	DataType string
	// FillValue holds one element. Empty means all-zero bytes.
	FillValue []byte
}

// Describe decomposes sels into one description per touched chunk. The
// returned shape is the shape of the selected region, which is what the
// caller's buffer must have.
func (a Array) Describe(sels []subset.Selection) ([]ChunkDescription, []uint64, error) {
	sel, err := subset.FromSelections(sels, a.Grid.ArrayShape())
	if err != nil {
		return nil, nil, err
	}
	projs, err := a.Grid.Project(sel)
	if err != nil {
		return nil, nil, err
	}
	fill := a.FillValue
	if len(fill) == 0 {
		if dt, err := dtype.Parse(a.DataType); err == nil {
			fill = dtype.ZeroFill(dt).Bytes()
		}
	}
	root := strings.TrimSuffix(a.Address, "/")
	descs := make([]ChunkDescription, len(projs))
	for i, pr := range projs {
		descs[i] = ChunkDescription{
			StoreAddress:    root + "/" + a.Keys.Key(pr.Coords),
			ChunkShape:      a.Grid.ChunkShape(),
			DataType:        a.DataType,
			FillValue:       fill,
			ChunkSelection:  pr.ChunkSubset.Selections(),
			OutputSelection: pr.OutputSubset.Selections(),
		}
	}
	return descs, sel.Shape(), nil
}

// ReadRegion reads sels of arr into a new buffer.
func (p *Pipeline) ReadRegion(ctx context.Context, arr Array, sels []subset.Selection, chunkConcurrency int) (Buffer, error) {
	dt, err := dtype.Parse(arr.DataType)
	if err != nil {
		return Buffer{}, err
	}
	descs, shape, err := arr.Describe(sels)
	if err != nil {
		return Buffer{}, err
	}
	buf := NewBuffer(shape, dt.Size())
	if err := p.RetrieveChunks(ctx, descs, buf, chunkConcurrency); err != nil {
		return Buffer{}, err
	}
	return buf, nil
}

// WriteRegion writes src into sels of arr. src must have the shape of the
// selected region, or be a scalar to broadcast over it.
func (p *Pipeline) WriteRegion(ctx context.Context, arr Array, sels []subset.Selection, src Buffer, chunkConcurrency int) error {
	descs, _, err := arr.Describe(sels)
	if err != nil {
		return err
	}
	if len(src.Shape) == 0 {
		for i := range descs {
			descs[i].OutputSelection = nil
		}
	}
	return p.StoreChunks(ctx, descs, src, chunkConcurrency)
}
