package codec

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/chunkflow/store"
)

// Input supplies the encoded bytes of one chunk.
type Input interface {
	// ReadAll returns the encoded chunk. ok is false when the chunk is absent.
	ReadAll(ctx context.Context) (b []byte, ok bool, err error)
}

// RangeInput is an Input that can read part of the encoded chunk.
type RangeInput interface {
	Input

	// ReadRange returns up to length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (b []byte, ok bool, err error)
}

// StoreInput reads a chunk from a store key.
type StoreInput struct {
	Store store.Store
	Key   string
}

// ReadAll implements Input.
func (in StoreInput) ReadAll(ctx context.Context) ([]byte, bool, error) {
	b, err := in.Store.Get(ctx, in.Key)
	return in.result(b, err)
}

// ReadRange implements RangeInput. Stores without ranged reads fall back
// to reading the whole value.
func (in StoreInput) ReadRange(ctx context.Context, off, length int64) ([]byte, bool, error) {
	b, err := store.ReadRange(ctx, in.Store, in.Key, off, length)
	return in.result(b, err)
}

func (in StoreInput) result(b []byte, err error) ([]byte, bool, error) {
	switch {
	case err == nil:
		return b, true, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("%w: %s: %w", ErrInputRead, in.Key, err)
	}
}

// BytesInput serves an in-memory encoded chunk. A nil slice is an absent
// chunk.
type BytesInput []byte

// ReadAll implements Input.
func (b BytesInput) ReadAll(context.Context) ([]byte, bool, error) {
	return b, b != nil, nil
}

// ReadRange implements RangeInput.
func (b BytesInput) ReadRange(_ context.Context, off, length int64) ([]byte, bool, error) {
	if b == nil {
		return nil, false, nil
	}
	if off >= int64(len(b)) || length <= 0 {
		return []byte{}, true, nil
	}
	end := min(off+length, int64(len(b)))
	return b[off:end], true, nil
}

var (
	_ RangeInput = StoreInput{}
	_ RangeInput = BytesInput(nil)
)
