package codec

import (
	"errors"
	"fmt"
)

// Chain is an array-to-bytes codec followed by bytes-to-bytes codecs.
// A Chain is safe for concurrent use.
type Chain struct {
	arrayToBytes ArrayToBytes
	bytesToBytes []BytesToBytes
	opts         Options
}

// NewChain parses metadata (see ParseMetadata) and builds the chain.
func NewChain(metadata []byte, opts Options) (*Chain, error) {
	specs, err := ParseMetadata(metadata)
	if err != nil {
		return nil, err
	}
	return Build(specs, opts)
}

// Build instantiates specs in order. Without an array-to-bytes codec the
// chain serializes elements little-endian.
func Build(specs []Spec, opts Options) (*Chain, error) {
	c := &Chain{opts: opts}
	for _, s := range specs {
		factory, ok := ByName(s.Name)
		if !ok {
			_ = c.Close()
			return nil, fmt.Errorf("%w: unknown codec %q", ErrInvalidMetadata, s.Name)
		}
		codec, err := factory(s.Configuration, opts)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMetadata, s.Name, err)
		}
		if err := c.add(codec); err != nil {
			closeCodec(codec)
			_ = c.Close()
			return nil, err
		}
	}
	if c.arrayToBytes == nil {
		c.arrayToBytes = NewBytes(LittleEndian)
	}
	return c, nil
}

func (c *Chain) add(codec Codec) error {
	switch v := codec.(type) {
	case ArrayToBytes:
		if c.arrayToBytes != nil {
			return fmt.Errorf("%w: second array-to-bytes codec %q", ErrInvalidMetadata, v.Name())
		}
		if len(c.bytesToBytes) > 0 {
			return fmt.Errorf("%w: array-to-bytes codec %q after bytes-to-bytes codecs", ErrInvalidMetadata, v.Name())
		}
		c.arrayToBytes = v
	case BytesToBytes:
		c.bytesToBytes = append(c.bytesToBytes, v)
	default:
		return fmt.Errorf("%w: codec %q is neither array-to-bytes nor bytes-to-bytes", ErrInvalidMetadata, codec.Name())
	}
	return nil
}

// Options returns the options the chain was built with.
func (c *Chain) Options() Options { return c.opts }

// Names returns the codec names in encode order.
func (c *Chain) Names() []string {
	names := make([]string, 0, 1+len(c.bytesToBytes))
	names = append(names, c.arrayToBytes.Name())
	for _, bb := range c.bytesToBytes {
		names = append(names, bb.Name())
	}
	return names
}

// Encode serializes a dense decoded chunk.
func (c *Chain) Encode(decoded []byte, rep ChunkRepresentation) ([]byte, error) {
	b, err := c.arrayToBytes.Encode(decoded, rep)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, c.arrayToBytes.Name(), err)
	}
	for _, bb := range c.bytesToBytes {
		if b, err = bb.Encode(b); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrEncode, bb.Name(), err)
		}
	}
	return b, nil
}

func (c *Chain) decodeBytes(encoded []byte) ([]byte, error) {
	b := encoded
	for i := len(c.bytesToBytes) - 1; i >= 0; i-- {
		bb := c.bytesToBytes[i]
		var err error
		if b, err = bb.Decode(b); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrDecode, bb.Name(), err)
		}
	}
	return b, nil
}

// Decode returns the dense chunk held by encoded. The result never aliases
// encoded.
func (c *Chain) Decode(encoded []byte, rep ChunkRepresentation) ([]byte, error) {
	b, err := c.decodeBytes(encoded)
	if err != nil {
		return nil, err
	}
	out, err := c.arrayToBytes.Decode(b, rep)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, c.arrayToBytes.Name(), err)
	}
	return out, nil
}

// DecodeInto decodes the whole chunk straight into target.
func (c *Chain) DecodeInto(encoded []byte, rep ChunkRepresentation, target Target) error {
	b, err := c.decodeBytes(encoded)
	if err != nil {
		return err
	}
	if err := c.arrayToBytes.DecodeInto(b, rep, target); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, c.arrayToBytes.Name(), err)
	}
	return nil
}

// PartialDecoder returns a decoder for regions of the chunk read from in.
func (c *Chain) PartialDecoder(in Input, rep ChunkRepresentation) PartialDecoder {
	if len(c.bytesToBytes) == 0 {
		return c.arrayToBytes.PartialDecoder(in, rep)
	}
	return &chunkPartialDecoder{chain: c, in: in, rep: rep}
}

// Close releases codec resources.
func (c *Chain) Close() error {
	var errs []error
	if cl, ok := c.arrayToBytes.(Closer); ok {
		errs = append(errs, cl.Close())
	}
	for _, bb := range c.bytesToBytes {
		if cl, ok := bb.(Closer); ok {
			errs = append(errs, cl.Close())
		}
	}
	return errors.Join(errs...)
}

func closeCodec(c Codec) {
	if cl, ok := c.(Closer); ok {
		_ = cl.Close()
	}
}
