package codec

import (
	"context"

	"github.com/hupe1980/chunkflow/subset"
)

// Codec is a named transform in a chain.
// Implementations must be safe for concurrent use.
type Codec interface {
	Name() string
}

// ArrayToBytes serializes the elements of a chunk.
type ArrayToBytes interface {
	Codec

	// Encode serializes decoded, a dense chunk laid out as rep.
	Encode(decoded []byte, rep ChunkRepresentation) ([]byte, error)

	// Decode returns the dense chunk held by encoded.
	Decode(encoded []byte, rep ChunkRepresentation) ([]byte, error)

	// DecodeInto decodes the whole chunk into target, which must hold the
	// same number of elements as the chunk.
	DecodeInto(encoded []byte, rep ChunkRepresentation, target Target) error

	// PartialDecoder returns a decoder reading the chunk from in.
	PartialDecoder(in Input, rep ChunkRepresentation) PartialDecoder
}

// BytesToBytes transforms the serialized bytes of a chunk.
type BytesToBytes interface {
	Codec

	Encode(decoded []byte) ([]byte, error)
	Decode(encoded []byte) ([]byte, error)
}

// Target is a region of a caller-owned buffer that decoded elements are
// written into.
type Target interface {
	// Shape returns the region's shape.
	Shape() []uint64
	// Write copies a dense buffer shaped like the region.
	Write(dense []byte) error
	// WriteFrom copies region from of src, a dense array of srcShape.
	WriteFrom(src []byte, srcShape []uint64, from subset.ArraySubset) error
	// Fill writes one element pattern into every element.
	Fill(pattern []byte) error
	// Contiguous returns a direct view when the region is a single byte run.
	Contiguous() ([]byte, bool)
}

// PartialDecoder decodes regions of one chunk.
type PartialDecoder interface {
	// PartialDecodeInto decodes chunkSubset, a region in chunk coordinates,
	// into target. An absent chunk fills target with the fill value.
	PartialDecodeInto(ctx context.Context, chunkSubset subset.ArraySubset, target Target) error
}

// Closer is implemented by codecs holding resources such as worker pools.
type Closer interface {
	Close() error
}
