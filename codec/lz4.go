package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/chunkflow/internal/conv"
	"github.com/pierrec/lz4/v4"
)

// LZ4Name is the registry name of the lz4 codec.
const LZ4Name = "lz4"

// lz4HeaderSize is the little-endian uncompressed length that precedes
// every block.
const lz4HeaderSize = 4

// lz4MaxRatio bounds how many bytes one byte of an LZ4 block can expand to.
const lz4MaxRatio = 255

type lz4Config struct {
	// Acceleration is accepted for compatibility and ignored.
	Acceleration int `json:"acceleration,omitempty"`
}

// lz4Codec writes LZ4 blocks prefixed with their decoded length.
type lz4Codec struct {
	compressors sync.Pool
}

// NewLZ4 returns an lz4 block codec.
func NewLZ4() BytesToBytes {
	return &lz4Codec{compressors: sync.Pool{New: func() any { return new(lz4.Compressor) }}}
}

func newLZ4Codec(config []byte, _ Options) (Codec, error) {
	var cfg lz4Config
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	return NewLZ4(), nil
}

func (c *lz4Codec) Name() string { return LZ4Name }

func (c *lz4Codec) Encode(decoded []byte) ([]byte, error) {
	size, err := conv.IntToUint32(len(decoded))
	if err != nil {
		return nil, fmt.Errorf("lz4: block too large: %w", err)
	}
	out := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(decoded)))
	binary.LittleEndian.PutUint32(out, size)
	if len(decoded) == 0 {
		return out[:lz4HeaderSize], nil
	}

	comp := c.compressors.Get().(*lz4.Compressor)
	defer c.compressors.Put(comp)

	n, err := comp.CompressBlock(decoded, out[lz4HeaderSize:])
	if err != nil {
		return nil, err
	}
	return out[:lz4HeaderSize+n], nil
}

func (c *lz4Codec) Decode(encoded []byte) ([]byte, error) {
	if len(encoded) < lz4HeaderSize {
		return nil, errors.New("lz4: block too small for header")
	}
	size := binary.LittleEndian.Uint32(encoded)
	if payload := uint64(len(encoded) - lz4HeaderSize); uint64(size) > payload*lz4MaxRatio {
		return nil, fmt.Errorf("lz4: header claims %d bytes from a %d-byte block", size, payload)
	}
	out := make([]byte, size)
	if size == 0 {
		return out, nil
	}
	n, err := lz4.UncompressBlock(encoded[lz4HeaderSize:], out)
	if err != nil {
		return nil, err
	}
	if n != int(size) {
		return nil, fmt.Errorf("lz4: decoded %d bytes, header says %d", n, size)
	}
	return out, nil
}
