package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("store: key not found")

	// ErrInvalidKey is returned for keys that are empty, absolute or escape
	// the store root.
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store is a key/value chunk store. Keys are slash-separated relative
// paths. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	// Implementations must not retain value after returning.
	Set(ctx context.Context, key string, value []byte) error
	// Erase removes key. Erasing an absent key is not an error.
	Erase(ctx context.Context, key string) error
}

// RangeGetter is implemented by stores that can read part of a value.
type RangeGetter interface {
	// GetRange returns up to length bytes starting at off. The result is
	// shorter than length when the value ends first.
	GetRange(ctx context.Context, key string, off, length int64) ([]byte, error)
	// Size returns the length of the value stored under key.
	Size(ctx context.Context, key string) (int64, error)
}

// Mapping is a read-only view of a stored value that must be closed.
type Mapping interface {
	Bytes() []byte
	Close() error
}

// Mapper is implemented by stores that can expose a value without copying it.
type Mapper interface {
	Map(ctx context.Context, key string) (Mapping, error)
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	// List returns every key with the given prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// CleanKey validates key and returns its canonical form.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return clean, nil
}

type bytesMapping []byte

func (b bytesMapping) Bytes() []byte { return b }
func (bytesMapping) Close() error    { return nil }

// MapOrGet exposes the value under key without copying when s is a Mapper
// and falls back to Get otherwise.
func MapOrGet(ctx context.Context, s Store, key string) (Mapping, error) {
	if m, ok := s.(Mapper); ok {
		return m.Map(ctx, key)
	}
	b, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return bytesMapping(b), nil
}

// ReadRange reads part of a value, using a ranged read when s supports it.
func ReadRange(ctx context.Context, s Store, key string, off, length int64) ([]byte, error) {
	if rg, ok := s.(RangeGetter); ok {
		return rg.GetRange(ctx, key, off, length)
	}
	b, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return clip(b, off, length), nil
}

func clip(b []byte, off, length int64) []byte {
	if off >= int64(len(b)) || length <= 0 {
		return []byte{}
	}
	end := min(off+length, int64(len(b)))
	out := make([]byte, end-off)
	copy(out, b[off:end])
	return out
}
