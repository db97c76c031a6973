package codec

import (
	"fmt"

	"github.com/hupe1980/chunkflow/internal/hash"
)

// CRC32CName is the registry name of the crc32c checksum codec.
const CRC32CName = "crc32c"

// crc32cCodec appends a little-endian CRC32C of the payload.
type crc32cCodec struct {
	validate bool
}

// NewCRC32C returns the crc32c codec. With validate unset, Decode strips
// the checksum without checking it.
func NewCRC32C(validate bool) BytesToBytes {
	return &crc32cCodec{validate: validate}
}

func newCRC32CCodec(config []byte, opts Options) (Codec, error) {
	if err := decodeConfig(config, &struct{}{}); err != nil {
		return nil, err
	}
	return NewCRC32C(opts.ValidateChecksums), nil
}

func (c *crc32cCodec) Name() string { return CRC32CName }

func (c *crc32cCodec) Encode(decoded []byte) ([]byte, error) {
	return hash.AppendCRC32C(make([]byte, 0, len(decoded)+hash.ChecksumSize), decoded), nil
}

func (c *crc32cCodec) Decode(encoded []byte) ([]byte, error) {
	payload, match, ok := hash.SplitCRC32C(encoded)
	if !ok {
		return nil, fmt.Errorf("%d bytes is shorter than the checksum", len(encoded))
	}
	if c.validate && !match {
		return nil, ErrChecksum
	}
	return payload, nil
}
