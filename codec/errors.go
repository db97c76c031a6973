package codec

import "errors"

var (
	// ErrInvalidMetadata is returned for malformed chain descriptions and
	// unknown codecs.
	ErrInvalidMetadata = errors.New("invalid codec metadata")

	// ErrInvalidChunkShape is returned for chunk shapes with a zero-length axis
	// and for buffers whose element count does not match their chunk.
	ErrInvalidChunkShape = errors.New("invalid chunk shape")

	// ErrDecode is returned when encoded bytes cannot be decoded.
	ErrDecode = errors.New("decode failed")

	// ErrEncode is returned when a chunk cannot be encoded.
	ErrEncode = errors.New("encode failed")

	// ErrChecksum is returned when a stored checksum does not match its payload.
	// It always accompanies ErrDecode.
	ErrChecksum = errors.New("checksum mismatch")

	// ErrInputRead is returned when the encoded bytes of a chunk cannot be read.
	ErrInputRead = errors.New("input read failed")
)
