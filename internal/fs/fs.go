package fs

import (
	"io"
	"os"
)

// ReadFile is a chunk file opened for reading.
type ReadFile interface {
	io.ReaderAt
	io.Closer
	Stat() (os.FileInfo, error)
}

// WriteFile is a temporary file receiving a new chunk value.
type WriteFile interface {
	io.Writer
	io.Closer
	Sync() error
	Name() string
}

// FileSystem is the set of filesystem operations the local chunk store
// performs.
type FileSystem interface {
	Open(name string) (ReadFile, error)
	CreateTemp(dir, pattern string) (WriteFile, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(name string) ([]os.DirEntry, error)
}

// OS is the FileSystem of the host. Open returns *os.File values, which
// the local store can memory-map.
type OS struct{}

func (OS) Open(name string) (ReadFile, error) { return os.Open(name) }

func (OS) CreateTemp(dir, pattern string) (WriteFile, error) { return os.CreateTemp(dir, pattern) }

func (OS) Remove(name string) error                     { return os.Remove(name) }
func (OS) Rename(oldpath, newpath string) error         { return os.Rename(oldpath, newpath) }
func (OS) Stat(name string) (os.FileInfo, error)        { return os.Stat(name) }
func (OS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (OS) ReadDir(name string) ([]os.DirEntry, error)   { return os.ReadDir(name) }

// Default is the FileSystem used when none is configured.
var Default FileSystem = OS{}
