package store

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hupe1980/chunkflow/internal/fs"
	"github.com/hupe1980/chunkflow/internal/mmap"
)

// DefaultMmapThreshold is the value size from which LocalStore maps files
// instead of reading them.
const DefaultMmapThreshold = 64 * 1024

// LocalStore stores each value as a file below a root directory.
//
// Writes go to a temporary file in the target directory that is renamed
// over the key, so readers never observe a partially written value.
// Directories created for keys are left in place after Erase.
type LocalStore struct {
	root          string
	fs            fs.FileSystem
	mmapThreshold int64
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithFileSystem replaces the filesystem implementation.
func WithFileSystem(fsys fs.FileSystem) LocalOption {
	return func(s *LocalStore) { s.fs = fsys }
}

// WithMmapThreshold sets the minimum value size that Map maps instead of
// reading. Zero maps every non-empty value.
func WithMmapThreshold(n int64) LocalOption {
	return func(s *LocalStore) { s.mmapThreshold = n }
}

// NewLocalStore creates a LocalStore rooted at root.
func NewLocalStore(root string, optFns ...LocalOption) *LocalStore {
	s := &LocalStore{
		root:          filepath.Clean(root),
		fs:            fs.Default,
		mmapThreshold: DefaultMmapThreshold,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Root returns the directory the store is rooted at.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(key string) (string, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func notFound(err error) error {
	if errors.Is(err, iofs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// Get reads the file for key.
func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(p)
	if err != nil {
		return nil, notFound(err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, fi.Size())
	if _, err := f.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf, nil
}

// Map exposes the file for key. Files at or above the mmap threshold are
// memory-mapped when the filesystem hands out *os.File values.
func (s *LocalStore) Map(ctx context.Context, key string) (Mapping, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(p)
	if err != nil {
		return nil, notFound(err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if osf, ok := f.(*os.File); ok && fi.Size() > 0 && fi.Size() >= s.mmapThreshold {
		r, err := mmap.Map(osf, mmap.HintSequential)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	buf := make([]byte, fi.Size())
	if _, err := f.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return bytesMapping(buf), nil
}

// GetRange reads part of the file for key.
func (s *LocalStore) GetRange(_ context.Context, key string, off, length int64) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(p)
	if err != nil {
		return nil, notFound(err)
	}
	defer f.Close()

	if length <= 0 {
		return []byte{}, nil
	}
	buf := make([]byte, length)
	n, err := f.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// Size returns the file size for key.
func (s *LocalStore) Size(_ context.Context, key string) (int64, error) {
	p, err := s.path(key)
	if err != nil {
		return 0, err
	}
	fi, err := s.fs.Stat(p)
	if err != nil {
		return 0, notFound(err)
	}
	return fi.Size(), nil
}

// Set atomically replaces the file for key.
func (s *LocalStore) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := s.fs.CreateTemp(dir, "."+filepath.Base(p)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = s.fs.Remove(tmpName) }

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := s.fs.Rename(tmpName, p); err != nil {
		cleanup()
		return err
	}
	return nil
}

// Erase removes the file for key.
func (s *LocalStore) Erase(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns every key with the given prefix. Temporary files of
// in-flight writes are skipped.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	var walk func(dir, rel string) error
	walk = func(dir, rel string) error {
		entries, err := s.fs.ReadDir(dir)
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return nil
			}
			return err
		}
		for _, e := range entries {
			name := e.Name()
			key := name
			if rel != "" {
				key = rel + "/" + name
			}
			if e.IsDir() {
				if err := walk(filepath.Join(dir, name), key); err != nil {
					return err
				}
				continue
			}
			if strings.HasPrefix(name, ".") && strings.Contains(name, ".tmp-") {
				continue
			}
			if strings.HasPrefix(key, prefix) {
				keys = append(keys, key)
			}
		}
		return nil
	}
	if err := walk(s.root, ""); err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}

var (
	_ Store       = (*LocalStore)(nil)
	_ RangeGetter = (*LocalStore)(nil)
	_ Mapper      = (*LocalStore)(nil)
	_ Lister      = (*LocalStore)(nil)
)
