package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// GzipName is the registry name of the gzip codec.
const GzipName = "gzip"

type gzipConfig struct {
	Level *int `json:"level,omitempty"`
}

type gzipCodec struct {
	level   int
	writers sync.Pool
	readers sync.Pool
}

// NewGzip returns a gzip codec compressing at level (0-9).
func NewGzip(level int) (BytesToBytes, error) {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, fmt.Errorf("gzip level %d out of range", level)
	}
	return &gzipCodec{level: level}, nil
}

func newGzipCodec(config []byte, _ Options) (Codec, error) {
	var cfg gzipConfig
	if err := decodeConfig(config, &cfg); err != nil {
		return nil, err
	}
	level := gzip.DefaultCompression
	if cfg.Level != nil {
		level = *cfg.Level
	}
	return NewGzip(level)
}

func (c *gzipCodec) Name() string { return GzipName }

func (c *gzipCodec) Encode(decoded []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, _ := c.writers.Get().(*gzip.Writer)
	if w == nil {
		var err error
		if w, err = gzip.NewWriterLevel(&buf, c.level); err != nil {
			return nil, err
		}
	} else {
		w.Reset(&buf)
	}
	defer c.writers.Put(w)

	if _, err := w.Write(decoded); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *gzipCodec) Decode(encoded []byte) ([]byte, error) {
	r, _ := c.readers.Get().(*gzip.Reader)
	if r == nil {
		var err error
		if r, err = gzip.NewReader(bytes.NewReader(encoded)); err != nil {
			return nil, err
		}
	} else if err := r.Reset(bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	defer c.readers.Put(r)

	out, err := io.ReadAll(r)
	if err != nil {
		if errors.Is(err, gzip.ErrChecksum) {
			return nil, fmt.Errorf("%w: %w", ErrChecksum, err)
		}
		return nil, err
	}
	return out, nil
}
