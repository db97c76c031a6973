package codec

import (
	"errors"

	"github.com/klauspost/compress/zstd"
)

// ZstdName is the registry name of the zstd codec.
const ZstdName = "zstd"

type zstdConfig struct {
	Level    *int `json:"level,omitempty"`
	Checksum bool `json:"checksum,omitempty"`
}

// zstdCodec shares one encoder and one decoder between all chunks.
// EncodeAll and DecodeAll are safe for concurrent use and run at most
// ConcurrentTarget operations at once.
type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd returns a zstd codec. level uses zstd's numeric levels; checksum
// appends a content checksum to every frame.
func NewZstd(level int, checksum bool, opts Options) (BytesToBytes, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderCRC(checksum),
		zstd.WithEncoderConcurrency(opts.concurrency()),
	)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(opts.concurrency()),
		zstd.IgnoreChecksum(!opts.ValidateChecksums),
	)
	if err != nil {
		_ = enc.Close()
		return nil, err
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func newZstdCodec(config []byte, opts Options) (Codec, error) {
	var cfg zstdConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	level := 3
	if cfg.Level != nil {
		level = *cfg.Level
	}
	return NewZstd(level, cfg.Checksum, opts)
}

func (c *zstdCodec) Name() string { return ZstdName }

func (c *zstdCodec) Encode(decoded []byte) ([]byte, error) {
	return c.enc.EncodeAll(decoded, nil), nil
}

func (c *zstdCodec) Decode(encoded []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(encoded, nil)
	if errors.Is(err, zstd.ErrCRCMismatch) {
		return nil, errors.Join(ErrChecksum, err)
	}
	return out, err
}

func (c *zstdCodec) Close() error {
	c.dec.Close()
	return c.enc.Close()
}
