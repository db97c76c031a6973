package codec

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/chunkflow/dtype"
	"github.com/hupe1980/chunkflow/subset"
)

// BytesName is the registry name of the bytes codec.
const BytesName = "bytes"

// Endian is the byte order of serialized elements.
type Endian string

const (
	LittleEndian Endian = "little"
	BigEndian    Endian = "big"
)

type bytesConfig struct {
	Endian *Endian `json:"endian,omitempty"`
}

// bytesCodec lays elements out in row-major order with a fixed byte order.
type bytesCodec struct {
	endian Endian
}

// NewBytes returns the bytes array-to-bytes codec.
func NewBytes(endian Endian) ArrayToBytes {
	return &bytesCodec{endian: endian}
}

func newBytesCodec(config []byte, _ Options) (Codec, error) {
	var cfg bytesConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	endian := LittleEndian
	if cfg.Endian != nil {
		endian = *cfg.Endian
	}
	switch endian {
	case LittleEndian, BigEndian:
	default:
		return nil, fmt.Errorf("unsupported endian %q", endian)
	}
	return NewBytes(endian), nil
}

func (c *bytesCodec) Name() string { return BytesName }

// swapWidth returns the width of the units to reverse, or 0 when the
// in-memory and serialized byte orders agree.
func (c *bytesCodec) swapWidth(dt dtype.DataType) int {
	w := dt.ComponentSize()
	if w <= 1 {
		return 0
	}
	var memoryBig bool
	switch dt.ByteOrder() {
	case dtype.BOLittleEndian:
		memoryBig = false
	case dtype.BOBigEndian:
		memoryBig = true
	default:
		memoryBig = !dtype.HostIsLittleEndian()
	}
	if memoryBig == (c.endian == BigEndian) {
		return 0
	}
	return w
}

func swapBytes(b []byte, width int) {
	if width == 0 {
		return
	}
	for i := 0; i+width <= len(b); i += width {
		slices.Reverse(b[i : i+width])
	}
}

func (c *bytesCodec) Encode(decoded []byte, rep ChunkRepresentation) ([]byte, error) {
	if err := rep.checkLen(decoded); err != nil {
		return nil, err
	}
	out := slices.Clone(decoded)
	swapBytes(out, c.swapWidth(rep.DataType()))
	return out, nil
}

func (c *bytesCodec) Decode(encoded []byte, rep ChunkRepresentation) ([]byte, error) {
	if err := rep.checkLen(encoded); err != nil {
		return nil, err
	}
	out := slices.Clone(encoded)
	swapBytes(out, c.swapWidth(rep.DataType()))
	return out, nil
}

func (c *bytesCodec) DecodeInto(encoded []byte, rep ChunkRepresentation, target Target) error {
	if err := rep.checkLen(encoded); err != nil {
		return err
	}
	if view, ok := target.Contiguous(); ok && len(view) == len(encoded) {
		copy(view, encoded)
		swapBytes(view, c.swapWidth(rep.DataType()))
		return nil
	}
	decoded, err := c.Decode(encoded, rep)
	if err != nil {
		return err
	}
	return target.Write(decoded)
}

func (c *bytesCodec) PartialDecoder(in Input, rep ChunkRepresentation) PartialDecoder {
	return &bytesPartialDecoder{codec: c, in: in, rep: rep}
}

// bytesPartialDecoder reads only the byte span covering the requested
// region when its input supports ranged reads.
type bytesPartialDecoder struct {
	codec *bytesCodec
	in    Input
	rep   ChunkRepresentation
}

func (d *bytesPartialDecoder) PartialDecodeInto(ctx context.Context, chunkSubset subset.ArraySubset, target Target) error {
	if err := checkChunkSubset(chunkSubset, d.rep); err != nil {
		return err
	}
	if chunkSubset.IsEmpty() {
		return nil
	}
	shape, elemSize := d.rep.Shape(), d.rep.ElementSize()

	lo, hi := -1, 0
	if err := subset.ForEachRun(shape, chunkSubset, elemSize, func(off, n int) {
		if lo < 0 {
			lo = off
		}
		hi = off + n
	}); err != nil {
		return err
	}

	span, ok, err := d.readSpan(ctx, lo, hi, chunkSubset.IsWhole(shape))
	if err != nil {
		return err
	}
	if !ok {
		return target.Fill(d.rep.FillValue().Bytes())
	}

	dense := make([]byte, 0, int(chunkSubset.NumElements())*elemSize)
	if err := subset.ForEachRun(shape, chunkSubset, elemSize, func(off, n int) {
		dense = append(dense, span[off-lo:off-lo+n]...)
	}); err != nil {
		return err
	}
	swapBytes(dense, d.codec.swapWidth(d.rep.DataType()))
	return target.Write(dense)
}

func (d *bytesPartialDecoder) readSpan(ctx context.Context, lo, hi int, whole bool) ([]byte, bool, error) {
	if ri, ok := d.in.(RangeInput); ok && !whole {
		span, present, err := ri.ReadRange(ctx, int64(lo), int64(hi-lo))
		if err != nil || !present {
			return nil, present, err
		}
		if len(span) != hi-lo {
			return nil, false, fmt.Errorf("%w: %s: read %d bytes of span [%d, %d)", ErrDecode, BytesName, len(span), lo, hi)
		}
		return span, true, nil
	}
	all, present, err := d.in.ReadAll(ctx)
	if err != nil || !present {
		return nil, present, err
	}
	if err := d.rep.checkLen(all); err != nil {
		return nil, false, fmt.Errorf("%w: %s: %w", ErrDecode, BytesName, err)
	}
	return all[lo:hi], true, nil
}
