package store

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// BillyStore stores values as files in a go-billy filesystem, for example
// memfs in tests or a chroot of osfs.
type BillyStore struct {
	fs billy.Filesystem
}

// NewBillyStore wraps fsys.
func NewBillyStore(fsys billy.Filesystem) *BillyStore {
	return &BillyStore{fs: fsys}
}

// Get reads the file for key.
func (s *BillyStore) Get(_ context.Context, key string) ([]byte, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(clean)
	if err != nil {
		return nil, notFound(err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// GetRange reads part of the file for key.
func (s *BillyStore) GetRange(_ context.Context, key string, off, length int64) ([]byte, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(clean)
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
func (s *BillyStore) Size(_ context.Context, key string) (int64, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return 0, err
	}
	fi, err := s.fs.Stat(clean)
	if err != nil {
		return 0, notFound(err)
	}
	return fi.Size(), nil
}

// Set writes to a temporary file and renames it over key.
func (s *BillyStore) Set(_ context.Context, key string, value []byte) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}
	dir := path.Dir(clean)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := s.fs.TempFile(dir, "."+path.Base(clean)+".tmp-")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return err
	}
	if err := s.fs.Rename(tmp.Name(), clean); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return err
	}
	return nil
}

// Erase removes the file for key.
func (s *BillyStore) Erase(_ context.Context, key string) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, iofs.ErrNotExist) && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns every key with the given prefix.
func (s *BillyStore) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	var walk func(dir string) error
	walk = func(dir string) error {
		infos, err := s.fs.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, fi := range infos {
			p := fi.Name()
			if dir != "" && dir != "." {
				p = path.Join(dir, fi.Name())
			}
			if fi.IsDir() {
				if err := walk(p); err != nil {
					return err
				}
				continue
			}
			if strings.HasPrefix(fi.Name(), ".") && strings.Contains(fi.Name(), ".tmp-") {
				continue
			}
			if strings.HasPrefix(p, prefix) {
				keys = append(keys, p)
			}
		}
		return nil
	}
	if err := walk("."); err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}

var (
	_ Store       = (*BillyStore)(nil)
	_ RangeGetter = (*BillyStore)(nil)
	_ Lister      = (*BillyStore)(nil)
)
