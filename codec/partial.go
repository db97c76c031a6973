package codec

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/chunkflow/subset"
)

// chunkPartialDecoder decodes the whole chunk on first use and serves
// regions from the decoded copy.
type chunkPartialDecoder struct {
	chain *Chain
	in    Input
	rep   ChunkRepresentation

	mu      sync.Mutex
	loaded  bool
	present bool
	decoded []byte
}

func (d *chunkPartialDecoder) PartialDecodeInto(ctx context.Context, chunkSubset subset.ArraySubset, target Target) error {
	if err := checkChunkSubset(chunkSubset, d.rep); err != nil {
		return err
	}
	decoded, ok, err := d.load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return target.Fill(d.rep.FillValue().Bytes())
	}
	return target.WriteFrom(decoded, d.rep.Shape(), chunkSubset)
}

func (d *chunkPartialDecoder) load(ctx context.Context) ([]byte, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		return d.decoded, d.present, nil
	}
	encoded, ok, err := d.in.ReadAll(ctx)
	if err != nil {
		return nil, false, err
	}
	if ok {
		if d.decoded, err = d.chain.Decode(encoded, d.rep); err != nil {
			return nil, false, err
		}
	}
	d.loaded, d.present = true, ok
	return d.decoded, ok, nil
}

func checkChunkSubset(s subset.ArraySubset, rep ChunkRepresentation) error {
	if s.Dimensionality() != len(rep.Shape()) || !s.InBounds(rep.Shape()) {
		return fmt.Errorf("%w: %s in chunk of shape %v", subset.ErrOutOfBounds, s, rep.Shape())
	}
	return nil
}
