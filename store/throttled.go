package store

import (
	"context"

	"github.com/hupe1980/chunkflow/resource"
)

// ThrottledStore charges every byte read from or written to the inner
// store against a resource.Controller's IO budget.
type ThrottledStore struct {
	inner Store
	rc    *resource.Controller
}

// NewThrottledStore wraps inner. A nil controller disables throttling.
func NewThrottledStore(inner Store, rc *resource.Controller) *ThrottledStore {
	return &ThrottledStore{inner: inner, rc: rc}
}

// Inner returns the wrapped store.
func (s *ThrottledStore) Inner() Store { return s.inner }

func (s *ThrottledStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.rc.ChargeIO(ctx, len(b)); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ThrottledStore) GetRange(ctx context.Context, key string, off, length int64) ([]byte, error) {
	b, err := ReadRange(ctx, s.inner, key, off, length)
	if err != nil {
		return nil, err
	}
	if err := s.rc.ChargeIO(ctx, len(b)); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *ThrottledStore) Size(ctx context.Context, key string) (int64, error) {
	if rg, ok := s.inner.(RangeGetter); ok {
		return rg.Size(ctx, key)
	}
	b, err := s.inner.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return int64(len(b)), nil
}

// Map delegates to the inner store's Mapper when present. Mapped bytes
// are charged up front.
func (s *ThrottledStore) Map(ctx context.Context, key string) (Mapping, error) {
	m, err := MapOrGet(ctx, s.inner, key)
	if err != nil {
		return nil, err
	}
	if err := s.rc.ChargeIO(ctx, len(m.Bytes())); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

func (s *ThrottledStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rc.ChargeIO(ctx, len(value)); err != nil {
		return err
	}
	return s.inner.Set(ctx, key, value)
}

func (s *ThrottledStore) Erase(ctx context.Context, key string) error {
	return s.inner.Erase(ctx, key)
}

var (
	_ Store       = (*ThrottledStore)(nil)
	_ RangeGetter = (*ThrottledStore)(nil)
	_ Mapper      = (*ThrottledStore)(nil)
)
