package mmap

import (
	"errors"
	"math"
	"os"
	"sync"
)

// Hint tells the kernel how a region will be read.
type Hint uint8

const (
	// HintNone leaves the kernel default in place.
	HintNone Hint = iota
	// HintSequential suits a whole chunk decoded front to back.
	HintSequential
	// HintRandom suits partial decodes that touch a few byte runs.
	HintRandom
)

// ErrTooLarge is returned for files that do not fit the address space.
var ErrTooLarge = errors.New("mmap: file too large")

// Region is a read-only mapping of a whole chunk file.
type Region struct {
	once  sync.Once
	data  []byte
	unmap func() error
	err   error
}

// Map maps f and applies hint. The region stays valid after f is closed.
// Empty files yield an empty region without a kernel mapping.
func Map(f *os.File, hint Hint) (*Region, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() > math.MaxInt {
		return nil, ErrTooLarge
	}
	r := &Region{}
	if fi.Size() == 0 {
		return r, nil
	}
	r.data, r.unmap, err = mapFile(f, int(fi.Size()))
	if err != nil {
		return nil, err
	}
	if err := advise(r.data, hint); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}

// MapPath opens and maps the file at path.
func MapPath(path string, hint Hint) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Map(f, hint)
}

// Bytes returns the mapped bytes. They must not be used after Close.
func (r *Region) Bytes() []byte { return r.data }

// Len returns the size of the region.
func (r *Region) Len() int { return len(r.data) }

// Close releases the mapping. Later calls return the first result.
func (r *Region) Close() error {
	r.once.Do(func() {
		if r.unmap != nil {
			r.err = r.unmap()
		}
		r.data = nil
	})
	return r.err
}
