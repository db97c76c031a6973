package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is returned by a fault without its own Err.
var ErrInjected = errors.New("injected fault")

// Fault describes how operations on matching paths fail.
type Fault struct {
	// FailAfterBytes fails a write once the file would exceed this many
	// bytes. Negative disables it.
	FailAfterBytes int64
	FailOnOpen     bool
	FailOnRead     bool
	FailOnSync     bool
	FailOnClose    bool
	FailOnRename   bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// FaultyFS wraps a FileSystem and fails operations on paths that contain
// a registered pattern.
type FaultyFS struct {
	inner FileSystem

	mu    sync.Mutex
	rules map[string]Fault
}

// NewFaultyFS wraps inner, or Default when inner is nil.
func NewFaultyFS(inner FileSystem) *FaultyFS {
	if inner == nil {
		inner = Default
	}
	return &FaultyFS{inner: inner, rules: make(map[string]Fault)}
}

// AddRule makes operations on paths containing pattern fail as described.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// ClearRules removes every rule.
func (f *FaultyFS) ClearRules() {
	f.mu.Lock()
	defer f.mu.Unlock()
	clear(f.rules)
}

func (f *FaultyFS) rule(name string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for pattern, fault := range f.rules {
		if strings.Contains(name, pattern) {
			return fault, true
		}
	}
	return Fault{FailAfterBytes: -1}, false
}

func (f *FaultyFS) Open(name string) (ReadFile, error) {
	fault, ok := f.rule(name)
	if ok && fault.FailOnOpen {
		return nil, fault.err()
	}
	file, err := f.inner.Open(name)
	if err != nil || !ok {
		return file, err
	}
	return &faultyReader{ReadFile: file, fault: fault}, nil
}

func (f *FaultyFS) CreateTemp(dir, pattern string) (WriteFile, error) {
	file, err := f.inner.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	fault, _ := f.rule(file.Name())
	return &faultyWriter{WriteFile: file, fault: fault}, nil
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if fault, ok := f.rule(newpath); ok && fault.FailOnRename {
		return fault.err()
	}
	return f.inner.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error                     { return f.inner.Remove(name) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error)        { return f.inner.Stat(name) }
func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error { return f.inner.MkdirAll(path, perm) }
func (f *FaultyFS) ReadDir(name string) ([]os.DirEntry, error)   { return f.inner.ReadDir(name) }

type faultyReader struct {
	ReadFile
	fault Fault
}

func (r *faultyReader) ReadAt(p []byte, off int64) (int, error) {
	if r.fault.FailOnRead {
		return 0, r.fault.err()
	}
	return r.ReadFile.ReadAt(p, off)
}

type faultyWriter struct {
	WriteFile
	fault   Fault
	written int64
}

func (w *faultyWriter) Write(p []byte) (int, error) {
	if w.fault.FailAfterBytes >= 0 && w.written+int64(len(p)) > w.fault.FailAfterBytes {
		return 0, w.fault.err()
	}
	n, err := w.WriteFile.Write(p)
	w.written += int64(n)
	return n, err
}

func (w *faultyWriter) Sync() error {
	if w.fault.FailOnSync {
		return w.fault.err()
	}
	return w.WriteFile.Sync()
}

func (w *faultyWriter) Close() error {
	if w.fault.FailOnClose {
		_ = w.WriteFile.Close()
		return w.fault.err()
	}
	return w.WriteFile.Close()
}
