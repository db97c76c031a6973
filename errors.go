package chunkflow

import (
	"errors"
	"fmt"

	"github.com/hupe1980/chunkflow/codec"
	"github.com/hupe1980/chunkflow/dtype"
	"github.com/hupe1980/chunkflow/subset"
)

var (
	// ErrOutOfBounds is returned for selections outside their array.
	ErrOutOfBounds = subset.ErrOutOfBounds

	// ErrUnsupportedSelection is returned for slices with a step other than 1.
	ErrUnsupportedSelection = subset.ErrUnsupportedSelection

	// ErrInvalidChunkShape is returned for chunk shapes with a zero axis and
	// for output regions whose size does not match their chunk region.
	ErrInvalidChunkShape = codec.ErrInvalidChunkShape

	// ErrUnsupportedDataType is returned for unknown or variable-width types.
	ErrUnsupportedDataType = dtype.ErrUnsupportedDataType

	// ErrInvalidFillValue is returned when a fill value does not match its type's width.
	ErrInvalidFillValue = dtype.ErrInvalidFillValue

	// ErrInvalidCodecMetadata is returned by New for malformed codec chains.
	ErrInvalidCodecMetadata = codec.ErrInvalidMetadata

	// ErrDecode is returned when a stored chunk cannot be decoded.
	ErrDecode = codec.ErrDecode

	// ErrEncode is returned when a chunk cannot be encoded.
	ErrEncode = codec.ErrEncode

	// ErrBackendMismatch is returned when a call addresses a different
	// backend than the one the pipeline already uses.
	ErrBackendMismatch = errors.New("backend mismatch")

	// ErrOutsideRoot is returned when an address of the pipeline's backend
	// cannot be expressed as a key under the root the pipeline opened.
	ErrOutsideRoot = errors.New("address outside pipeline root")

	// ErrUnsupportedBackend is returned for unknown address schemes.
	ErrUnsupportedBackend = errors.New("unsupported backend")

	// ErrNonContiguousBuffer is returned for buffers that are not C-contiguous.
	ErrNonContiguousBuffer = errors.New("buffer is not C-contiguous")

	// ErrBufferSize is returned when a buffer's length does not match its
	// shape and element size.
	ErrBufferSize = errors.New("buffer size mismatch")

	// ErrStoreRead is returned when a chunk cannot be read from its store.
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite is returned when a chunk cannot be written or erased.
	ErrStoreWrite = errors.New("store write failed")

	// ErrClosed is returned by calls on a closed Pipeline.
	ErrClosed = errors.New("pipeline closed")
)

// ChunkError reports the failure of one chunk of a call.
//
// The error matches both the failure class (ErrStoreRead, ErrDecode, ...)
// and the underlying cause via errors.Is.
type ChunkError struct {
	Op    string
	Key   string
	Index int
	cause error
}

func newChunkError(op string, index int, key string, kind, err error) *ChunkError {
	if !errors.Is(err, kind) {
		err = fmt.Errorf("%w: %w", kind, err)
	}
	return &ChunkError{Op: op, Key: key, Index: index, cause: err}
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("%s chunk %d (%s): %v", e.Op, e.Index, e.Key, e.cause)
}

func (e *ChunkError) Unwrap() error { return e.cause }

// DescriptionError reports an invalid chunk description. It is returned
// before any chunk is read or written.
type DescriptionError struct {
	Index int
	cause error
}

func (e *DescriptionError) Error() string {
	return fmt.Sprintf("chunk description %d: %v", e.Index, e.cause)
}

func (e *DescriptionError) Unwrap() error { return e.cause }
